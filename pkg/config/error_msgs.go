package config

const (
	NotImplemented        = "not implemented"
	InvalidAPIKey         = "invalid API key"
	HashSignatureRequired = "hash signature value required"
	VerificationFailed    = "can't verify provided information"
	InvalidRequestBody    = "invalid request body"
	MethodRequired        = "method required"
)
