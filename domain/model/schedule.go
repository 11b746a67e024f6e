package model

import "time"

// Provenance marks where a reconciled entry originated.
type Provenance string

const (
	// ProvenanceJob means the entry came from a local job record.
	ProvenanceJob Provenance = "job"
	// ProvenanceRemote means the platform knows of a scheduled video this
	// system never created a job for (e.g. manual scheduling).
	ProvenanceRemote Provenance = "remote"
)

// JoinKind tags the result of joining local jobs against remote state.
type JoinKind int

const (
	JoinJobOnly JoinKind = iota
	JoinRemoteOnly
	JoinMatched
)

// JoinItem is one element of the explicit join between the job store and the
// remote snapshot. Exactly the fields implied by Kind are set: Job for
// JoinJobOnly, Remote for JoinRemoteOnly, both for JoinMatched.
// RemoteFetched records whether the owning channel's remote state was
// reachable; a JoinJobOnly item with RemoteFetched=false must be resolved by
// local fallback even when the job carries a video id.
type JoinItem struct {
	Kind          JoinKind
	Job           *Job
	Remote        *RemoteVideoState
	RemoteFetched bool
}

// ScheduledEntry is the user-facing reconciled unit: one video that is still
// scheduled and not yet public.
type ScheduledEntry struct {
	JobID        string     `json:"job_id,omitempty"`
	UserID       string     `json:"user_id"`
	ChannelID    string     `json:"channel_id"`
	VideoID      string     `json:"video_id,omitempty"`
	Title        string     `json:"title"`
	Status       JobStatus  `json:"status"`
	PublishAt    *time.Time `json:"publish_at,omitempty"`
	Provenance   Provenance `json:"provenance"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

// ChannelFailure is one per-channel degradation observed during an aggregate
// reconciliation. Collected, not raised.
type ChannelFailure struct {
	ChannelID string `json:"channel_id"`
	Reason    string `json:"reason"`
}

// ReconcileReport is the full result of an aggregate reconciliation: the
// merged view plus every per-channel failure that degraded it.
type ReconcileReport struct {
	Entries         []ScheduledEntry `json:"entries"`
	ChannelFailures []ChannelFailure `json:"channel_failures,omitempty"`
}
