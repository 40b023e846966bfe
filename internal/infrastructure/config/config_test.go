package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, Username: "u", Password: "p", Database: "inventory", SSLMode: "disable"},
	}
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, Username: "user", Password: "pass", Database: "inventory", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=user password=pass dbname=inventory sslmode=disable", c.DSN())
}

func TestAddresses(t *testing.T) {
	assert.Equal(t, "redis:6379", (&RedisConfig{Host: "redis", Port: 6379}).Address())
	assert.Equal(t, "0.0.0.0:8080", (&ServerConfig{Host: "0.0.0.0", Port: 8080}).Address())
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsMissingDatabase(t *testing.T) {
	c := validConfig()
	c.Database.Host = ""
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Database.Database = ""
	assert.Error(t, c.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	c := validConfig()
	c.Server.Port = 0
	assert.Error(t, c.Validate())

	c.Server.Port = 70000
	assert.Error(t, c.Validate())
}

func TestValidateEnabledDependenciesNeedHosts(t *testing.T) {
	c := validConfig()
	c.Redis.Enabled = true
	assert.Error(t, c.Validate())

	c = validConfig()
	c.RabbitMQ.Enabled = true
	c.RabbitMQ.Host = "mq"
	assert.Error(t, c.Validate(), "queue name is required when rabbitmq is enabled")

	c.RabbitMQ.CorrectionsQueue = "room-status-corrections"
	assert.NoError(t, c.Validate())
}

func TestValidateNormalizesWebhookScheme(t *testing.T) {
	c := validConfig()
	c.Webhook.URL = "ops.example.com/hooks/inventory"
	require.NoError(t, c.Validate())
	assert.Equal(t, "https://ops.example.com/hooks/inventory", c.Webhook.URL)
}
