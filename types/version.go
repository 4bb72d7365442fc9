package types

// Version is the canonical project version.
// The CLI, the snapshot schema, and the publish layout share this
// version per the lockstep versioning policy.
const Version = "0.3.0"

// SnapshotSchemaVersion is the schema version stamped into invocation
// snapshot records. Bumped independently of Version only when the
// record layout changes incompatibly.
const SnapshotSchemaVersion = 1
