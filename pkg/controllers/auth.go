package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/hostchannel"
)

// AuthController guards the command api.
type AuthController struct {
	AppConfig *config.AppConfig
}

func NewAuthController(config *config.AppConfig) *AuthController {
	return &AuthController{
		AppConfig: config,
	}
}

// HandleAuthHeaderCheck is a middleware to check API-KEY & HASH-SIGNATURE.
// The signature is the hex encoded HMAC-SHA256 of the request body.
func (ac *AuthController) HandleAuthHeaderCheck(c *fiber.Ctx) error {
	apiKey := c.Get("API-KEY", "")
	signature := c.Get("HASH-SIGNATURE", "")

	if apiKey != ac.AppConfig.Client.ApiKey {
		return sendCommonResponse(c.Status(fiber.StatusUnauthorized), false, config.InvalidAPIKey)
	}
	if signature == "" {
		return sendCommonResponse(c.Status(fiber.StatusUnauthorized), false, config.HashSignatureRequired)
	}

	mac := hmac.New(sha256.New, []byte(ac.AppConfig.Client.Secret))
	mac.Write(c.Body())
	expectedSignature := hex.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(expectedSignature), []byte(signature)) != 1 {
		return sendCommonResponse(c.Status(fiber.StatusUnauthorized), false, config.VerificationFailed)
	}

	return c.Next()
}

func sendCommonResponse(c *fiber.Ctx, status bool, msg string) error {
	return c.JSON(&hostchannel.CommandRes{
		Status: status,
		Msg:    msg,
	})
}
