package youtube

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Secret Manager secret names holding the delegated OAuth credentials.
const (
	secretClientID     = "youtube-oauth-client-id"
	secretClientSecret = "youtube-oauth-client-secret"
	secretRefreshToken = "youtube-oauth-refresh-token"
)

var analyticsScopes = []string{"https://www.googleapis.com/auth/yt-analytics.readonly"}

// analyticsTokenSource builds a self-refreshing token source from the
// long-lived refresh token stored in Secret Manager.
func analyticsTokenSource(ctx context.Context, projectID string) (oauth2.TokenSource, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secret manager client: %w", err)
	}
	defer client.Close()

	clientID, err := accessSecret(ctx, client, projectID, secretClientID)
	if err != nil {
		return nil, err
	}
	clientSecret, err := accessSecret(ctx, client, projectID, secretClientSecret)
	if err != nil {
		return nil, err
	}
	refreshToken, err := accessSecret(ctx, client, projectID, secretRefreshToken)
	if err != nil {
		return nil, err
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       analyticsScopes,
	}
	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}), nil
}

func accessSecret(ctx context.Context, client *secretmanager.Client, projectID, secretID string) (string, error) {
	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretID),
	})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", secretID, err)
	}
	return string(resp.Payload.Data), nil
}
