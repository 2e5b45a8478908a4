package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xelth-com/eckmobile/internal/utils"
)

// TokenVerifier returns a check for the token sent with stock entry updates.
// The token may carry a "Bearer " prefix; it must be a JWT signed with secret.
func TokenVerifier(secret string) func(token string) error {
	return func(token string) error {
		token = strings.TrimSpace(token)
		if parts := strings.SplitN(token, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
		}
		if token == "" {
			return errors.New("token is required")
		}

		claims, err := utils.ValidateToken(token, secret)
		if err != nil {
			return err
		}
		switch claims["type"] {
		case "session", "stock":
			return nil
		}
		return fmt.Errorf("token type %v cannot edit stock entries", claims["type"])
	}
}
