package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestMustLoadByPath_Success(t *testing.T) {
	// Устанавливаем обязательные переменные окружения
	os.Setenv("DB_PASSWORD", "mypassword")
	os.Setenv("ADMIN_PASSWORD", "adminsecret")
	os.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	defer os.Unsetenv("DB_PASSWORD")
	defer os.Unsetenv("ADMIN_PASSWORD")
	defer os.Unsetenv("STRIPE_SECRET_KEY")

	// Пример содержимого конфигурационного файла
	content := `
env: "local"
http_server:
  address: "localhost:8080"
  timeout: "4s"
  idle_timeout: "60s"
database:
  host: "localhost"
  port: 5432
  user: "postgres"
  name: "chogan"
admin:
  username: "admin"
store:
  base_url: "https://shop.example.com"
  currency: "eur"
  upload_dir: "./public/uploads"
  templates_dir: "./web/templates"
migrations:
  path: "./migrations"
`
	// Создаем временный файл с конфигурацией
	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	assert.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	err = tmpFile.Close()
	assert.NoError(t, err)

	// Загружаем конфигурацию из временного файла
	cfg := config.MustLoadByPath(tmpFile.Name())

	// Проверяем, что конфигурация загружена корректно
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 4*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "chogan", cfg.Database.Name)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "adminsecret", cfg.Admin.Password)
	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)
	assert.Equal(t, "https://shop.example.com", cfg.Store.BaseURL)
	assert.Equal(t, "eur", cfg.Store.Currency)
	assert.Equal(t, "./migrations", cfg.Migrations.Path)
}

func TestMustLoadByPath_FileNotFound(t *testing.T) {
	// Ожидаем панику, если файла не существует
	assert.Panics(t, func() {
		config.MustLoadByPath("non_existent_config.yaml")
	})
}
