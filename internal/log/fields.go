// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService       = "service"
	FieldVersion       = "version"
	FieldSessionID     = "session_id"
	FieldCorrelationID = "correlation_id"
	FieldAccountID     = "account_id"
	FieldContentID     = "content_id"
	FieldEventID       = "event_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldPhase     = "phase"
	FieldPID       = "pid"
	FieldExitCode  = "exit_code"
	FieldSinkMode  = "sink_mode"

	// Playback fields
	FieldPath      = "path"
	FieldDuration  = "duration"
	FieldElapsed   = "elapsed"
	FieldWatchTime = "watch_time"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Reward fields
	FieldAmount     = "amount"
	FieldBaseAmount = "base_amount"
	FieldMultiplier = "multiplier"
	FieldReason     = "reason"
	FieldBenefit    = "benefit"

	// Network fields
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldBaseURL   = "base_url"
	FieldMethod    = "method"
	FieldListen    = "listen"
)
