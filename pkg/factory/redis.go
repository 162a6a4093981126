package factory

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisConnection connects to a single node or, when sentinel addresses
// are configured, to the sentinel managed master.
func NewRedisConnection(ctx context.Context, appCnf *config.AppConfig) error {
	rf := appCnf.RedisInfo
	var tlsConfig *tls.Config
	if rf.UseTLS {
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	var rdb *redis.Client
	if len(rf.SentinelAddresses) > 0 {
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			SentinelAddrs:    rf.SentinelAddresses,
			SentinelUsername: rf.SentinelUsername,
			SentinelPassword: rf.SentinelPassword,
			MasterName:       rf.MasterName,
			Username:         rf.Username,
			Password:         rf.Password,
			DB:               rf.DBName,
			TLSConfig:        tlsConfig,
			ClientName:       appCnf.HostChannel.Name,
		})
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:       rf.Host,
			Username:   rf.Username,
			Password:   rf.Password,
			DB:         rf.DBName,
			TLSConfig:  tlsConfig,
			ClientName: appCnf.HostChannel.Name,
		})
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return err
	}

	if info, err := rdb.Info(ctx, "server").Result(); err == nil {
		appCnf.Logger.WithField("version", redisServerVersion(info)).Info("successfully connected to Redis")
	}

	appCnf.RDS = rdb
	return nil
}

func redisServerVersion(info string) string {
	for _, line := range strings.Split(info, "\r\n") {
		if v, ok := strings.CutPrefix(line, "redis_version:"); ok {
			return v
		}
	}
	return "unknown"
}
