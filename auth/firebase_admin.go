package auth

import (
	"context"

	firebase "firebase.google.com/go"
	fbAuth "firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

// InitFirebaseAuth initializes a Firebase Admin SDK auth client from a
// service account JSON file. Returns nil when credFile is empty, which
// disables social login.
func InitFirebaseAuth(ctx context.Context, credFile string) (*fbAuth.Client, error) {
	if credFile == "" {
		return nil, nil
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credFile))
	if err != nil {
		return nil, err
	}
	return app.Auth(ctx)
}

// IdentityFromToken extracts the profile claims of a verified ID token.
func IdentityFromToken(token *fbAuth.Token) Identity {
	id := Identity{UID: token.UID}
	if v, ok := token.Claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := token.Claims["name"].(string); ok {
		id.Name = v
	}
	if v, ok := token.Claims["picture"].(string); ok {
		id.Picture = v
	}
	if v, ok := token.Claims["email_verified"].(bool); ok {
		id.EmailVerified = v
	}
	return id
}
