package bootstrap_test

import (
	"testing"

	"github.com/hack24/api/internal/app/bootstrap"
	"go.uber.org/zap"
)

func validAppConfig() bootstrap.AppConfig {
	return bootstrap.AppConfig{
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "hack24",
		AdminUsername:   "admin",
		AdminPassword:   "admin-secret",
		HackbotPassword: "hackbot-secret",
		PusherURL:       "https://relay.example.com/apps/1234",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *bootstrap.AppConfig)
		wantErr bool
	}{
		{"valid", func(cfg *bootstrap.AppConfig) {}, false},
		{"bad mongo uri", func(cfg *bootstrap.AppConfig) { cfg.MongoURI = "not-a-uri" }, true},
		{"missing admin username", func(cfg *bootstrap.AppConfig) { cfg.AdminUsername = "" }, true},
		{"missing admin password", func(cfg *bootstrap.AppConfig) { cfg.AdminPassword = "" }, true},
		{"missing hackbot password", func(cfg *bootstrap.AppConfig) { cfg.HackbotPassword = "" }, true},
		{"missing pusher url", func(cfg *bootstrap.AppConfig) { cfg.PusherURL = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)

			err := bootstrap.ValidateConfig(nil, cfg, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig: got err %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
