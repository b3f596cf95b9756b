package repository

import "context"

// DeviceRegistrar uploads a push token. External collaborator; the engine
// only hands off the token string and logs failures.
type DeviceRegistrar interface {
	Register(ctx context.Context, token, platform string) error
}
