// Package credentials implements a minimal credential-issuance core:
// email/password verification backed by bcrypt, an identity store with
// uniqueness guarantees, and HMAC-signed bearer tokens (issue and
// validate) scoped by issuer and audience.
//
// Stores:
//   - MemoryStore is the reference in-memory store. It can be seeded
//     with demo identities and serializes writes behind one lock so
//     concurrent registrations of the same email cannot both win.
//   - BunStore persists identities through Bun; the unique email index
//     is the duplicate guard.
//
// Tokens:
//   - TokenService signs claims with HS256 over a shared secret and
//     validates incoming tokens against the configured issuer and
//     audience with no clock tolerance. Validation failures are
//     classified (malformed, bad signature, wrong scope, expired) for
//     diagnostics; the transport layer collapses them all into a
//     single not-authenticated signal.
package credentials
