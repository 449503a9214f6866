package middleware

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"go.uber.org/zap"
)

// IDTokenVerifier is the part of the Firebase auth client used here. *auth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier checks Firebase ID tokens and maps the Firebase UID onto a stored user,
// creating the user on first sight.
type FirebaseVerifier struct {
	client IDTokenVerifier
	users  repositories.UserRepository
}

func NewFirebaseVerifier(client IDTokenVerifier, users repositories.UserRepository) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, users: users}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)

	user, err := v.users.UpsertFirebaseUser(ctx, token.UID, email, name, picture)
	if err != nil {
		logger.Log.Error("Failed to link Firebase user", zap.String("firebase_uid", token.UID), zap.Error(err))
		return "", fmt.Errorf("link firebase user: %w", err)
	}
	return user.ID.Hex(), nil
}
