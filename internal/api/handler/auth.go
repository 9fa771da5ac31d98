package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"chatterbox/backend/internal/models"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "chatterbox-service"

var errInvalidToken = errors.New("invalid token")

// generateJWT генерує JWT для користувача.
func (h *Handler) generateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(h.Cfg.TokenTTL).Unix(),
		"iss":     tokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Cfg.JWTSecret))
}

// validateAndGetUserID перевіряє JWT та повертає user_id із claims.
func (h *Handler) validateAndGetUserID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", errInvalidToken
	}
	return userID, nil
}

// bearerToken pulls the session credential from the Authorization header, or
// from the "token" query parameter for browser websocket clients that cannot
// set headers.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

// CreateToken реєструє користувача (якщо потрібно) та повертає JWT.
// Справжня авторизація живе в зовнішньому сервісі; цей роут — для розробки
// та інтеграційних тестів.
func (h *Handler) CreateToken(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		DisplayName string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	user := &models.User{Username: req.Username, DisplayName: req.DisplayName}
	if err := h.Storage.CreateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := h.generateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": user.ID})
}

// authenticate resolves the request's credential to an existing user id.
// Missing credential, bad token, and unknown user all collapse into one
// authentication failure.
func (h *Handler) authenticate(c *gin.Context) (string, bool) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return "", false
	}
	userID, err := h.validateAndGetUserID(tokenString)
	if err != nil {
		return "", false
	}
	user, err := h.Storage.GetUserByID(userID)
	if err != nil || user == nil {
		return "", false
	}
	return userID, true
}
