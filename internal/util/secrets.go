package util

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"themeradar/internal/logger"

	"github.com/joho/godotenv"
)

type Secrets struct {
	Db       *DbSecrets      `json:"db"`
	SES      SESSecrets      `json:"ses"`
	NewsFeed NewsFeedSecrets `json:"newsFeed"`
}

type DbSecrets struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	Port      string `json:"port"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	EnableSsl bool   `json:"enableSsl"`
}

type SESSecrets struct {
	Region    string `json:"region"`
	FromEmail string `json:"fromEmail"`
}

type NewsFeedSecrets struct {
	BaseUrl string `json:"baseUrl"`
	ApiKey  string `json:"apiKey"`
}

func (t DbSecrets) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

const SecretsEnvVar = "RADAR_SECRETS"

func secretsFile() string {
	if p := os.Getenv(SecretsEnvVar); p != "" {
		return p
	}
	switch strings.ToLower(os.Getenv(logger.EnvVar)) {
	case "dev":
		return "secrets-dev.json"
	case "test":
		return "secrets-test.json"
	}
	return "/go/src/app/secrets.json"
}

// LoadSecrets loads .env into the environment when present, then reads
// the secrets file it points at
func LoadSecrets() (*Secrets, error) {
	if err := godotenv.Load(); err != nil {
		logger.FromContext(context.Background()).Debugw(".env not loaded", "error", err)
	}

	path := secretsFile()
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	secrets := Secrets{}
	err = json.Unmarshal(f, &secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &secrets, nil
}
