package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Options locates the service account used to verify ID tokens.
type Options struct {
	CredentialsPath string
	// ProjectID overrides the project named in the credentials file.
	ProjectID string
}

func (o Options) validate() error {
	if o.CredentialsPath == "" {
		return errors.New("firebase credentials path not provided")
	}
	info, err := os.Stat(o.CredentialsPath)
	if err != nil {
		return fmt.Errorf("firebase credentials: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("firebase credentials: %s is a directory", o.CredentialsPath)
	}
	return nil
}

// NewAuthClient builds the Firebase Auth client that verifies bearer ID tokens.
func NewAuthClient(ctx context.Context, opts Options) (*auth.Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var conf *firebase.Config
	if opts.ProjectID != "" {
		conf = &firebase.Config{ProjectID: opts.ProjectID}
	}
	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(opts.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	logger.Log.Info("Firebase auth client ready", zap.String("project_id", opts.ProjectID))
	return client, nil
}
