// Package engine implements the incremental sub-repository synchronization
// engine.
//
// It is the core of subrepo-install, responsible for:
//   - Resolving the effective ref to track for each sub-repository
//   - Cloning missing working trees and fetching/resetting existing ones
//   - Deciding, per package, whether dependencies must be installed and
//     whether the build script must run, based on persisted subtree heads
//   - Linking synced packages and inherited dependencies into the host's
//     node_modules
//
// The engine drives injected git and pnpm runners and never invokes external
// processes itself, so its decision logic can be tested by asserting on the
// sequence of commands requested.
package engine
