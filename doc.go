// Package blogpulse implements the identity and session core of the Blog
// Pulse service: password registration and login, federated login backed by a
// Google-signed identity assertion, and stateless JWT sessions that gate the
// protected post-authoring endpoints.
//
// Sessions:
//   - Tokens are HS256-signed JWTs carrying a fixed claim shape (user id,
//     email, display name, issued-at, expiry). The server keeps no session
//     state; a token is valid iff its signature checks out and it has not
//     expired.
//
// Accounts:
//   - Emails are unique. The users table enforces the constraint; Create
//     surfaces the store's unique violation as ErrEmailTaken so two racing
//     registrations can never both succeed.
//   - Federated accounts carry a placeholder password hash derived from the
//     email and the signing secret, so they store and verify like any other
//     record without a user-chosen credential.
package blogpulse
