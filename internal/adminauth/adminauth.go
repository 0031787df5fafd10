package adminauth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Middleware - HTTP Basic-аутентификация для админки: одна фиксированная пара
// логин/пароль, без сессий и токенов. Запрос без валидных учетных данных
// отклоняется с challenge-заголовком до любой логики обработчика.
// Пустой настроенный пароль закрывает все защищенные маршруты.
func Middleware(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || password == "" || !usernameMatch(user, username) || !passwordMatch(pass, password) {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func usernameMatch(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// passwordMatch сравнивает пароль с настроенным значением. Значение с префиксом
// bcrypt-хэша трактуется как хэш, иначе сравнение выполняется за постоянное время.
func passwordMatch(got, configured string) bool {
	if strings.HasPrefix(configured, "$2a$") || strings.HasPrefix(configured, "$2b$") || strings.HasPrefix(configured, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(got)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(configured)) == 1
}
