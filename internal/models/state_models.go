package models

// AuthPhase enumerates the phases of the authentication state machine.
type AuthPhase string

const (
	AuthUnauthenticated AuthPhase = "UNAUTHENTICATED"
	AuthAuthenticating  AuthPhase = "AUTHENTICATING"
	AuthAuthenticated   AuthPhase = "AUTHENTICATED"
	AuthError           AuthPhase = "ERROR"
)

// AuthState is the current position of the auth state machine. Message is
// set only for the error phase.
type AuthState struct {
	Phase   AuthPhase `json:"phase"`
	Message string    `json:"message,omitempty"`
}

func Unauthenticated() AuthState { return AuthState{Phase: AuthUnauthenticated} }
func Authenticating() AuthState  { return AuthState{Phase: AuthAuthenticating} }
func Authenticated() AuthState   { return AuthState{Phase: AuthAuthenticated} }

// AuthFailure builds the error state. Validation failures, provider-reported
// failures and unexpected call-site errors all collapse into this one shape;
// callers never see a typed distinction.
func AuthFailure(message string) AuthState {
	return AuthState{Phase: AuthError, Message: message}
}

// UploadPhase enumerates the phases of the upload/query progress state.
type UploadPhase string

const (
	UploadIdle       UploadPhase = "IDLE"
	UploadInProgress UploadPhase = "IN_PROGRESS"
	UploadSucceeded  UploadPhase = "SUCCEEDED"
	UploadFailed     UploadPhase = "FAILED"
)

// UploadState is the transient, UI-facing projection of pipeline progress.
// It is never persisted. Both the upload pipeline and the feed queries
// publish to the same state channel: each is a facet of "the screen is
// waiting on network activity".
type UploadState struct {
	Phase   UploadPhase `json:"phase"`
	Message string      `json:"message,omitempty"`
}

func Idle() UploadState       { return UploadState{Phase: UploadIdle} }
func InProgress() UploadState { return UploadState{Phase: UploadInProgress} }

// Succeeded builds the terminal success state with a display message.
func Succeeded(message string) UploadState {
	return UploadState{Phase: UploadSucceeded, Message: message}
}

// Failed builds the terminal failure state with a display message.
func Failed(message string) UploadState {
	return UploadState{Phase: UploadFailed, Message: message}
}
