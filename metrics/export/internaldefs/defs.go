package internaldefs

import (
	"github.com/MrEthical07/accountcore"
)

// CounterDef names one Manager counter for export.
type CounterDef struct {
	ID   accountcore.MetricID
	Name string
	Help string
}

// HistogramDef names one Manager histogram for export.
type HistogramDef struct {
	ID   accountcore.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: accountcore.MetricUserCreated, Name: "accountcore_user_created_total", Help: "Users registered."},
	{ID: accountcore.MetricUserDuplicate, Name: "accountcore_user_duplicate_total", Help: "Registrations rejected because the email is taken."},
	{ID: accountcore.MetricUserCreateFailure, Name: "accountcore_user_create_failure_total", Help: "Registrations rejected by policy or store errors."},
	{ID: accountcore.MetricUserUpdated, Name: "accountcore_user_updated_total", Help: "User updates applied."},
	{ID: accountcore.MetricUserDeleted, Name: "accountcore_user_deleted_total", Help: "Users deleted."},
	{ID: accountcore.MetricVerifyRequested, Name: "accountcore_verify_requested_total", Help: "Verification token pairs issued."},
	{ID: accountcore.MetricVerifyConfirmed, Name: "accountcore_verify_confirmed_total", Help: "Successful email verifications."},
	{ID: accountcore.MetricVerifyFailure, Name: "accountcore_verify_failure_total", Help: "Rejected verification tokens."},
	{ID: accountcore.MetricAuthenticateSuccess, Name: "accountcore_authenticate_success_total", Help: "Successful credential checks."},
	{ID: accountcore.MetricAuthenticateFailure, Name: "accountcore_authenticate_failure_total", Help: "Failed credential checks."},
	{ID: accountcore.MetricPasswordRehash, Name: "accountcore_password_rehash_total", Help: "Stored hashes upgraded on login."},
	{ID: accountcore.MetricPasswordResetRequested, Name: "accountcore_password_reset_requested_total", Help: "Password reset tokens issued."},
	{ID: accountcore.MetricPasswordResetConfirmed, Name: "accountcore_password_reset_confirmed_total", Help: "Passwords reset with a valid token."},
	{ID: accountcore.MetricPasswordResetFailure, Name: "accountcore_password_reset_failure_total", Help: "Rejected password reset attempts."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: accountcore.MetricHashLatency, Name: "accountcore_password_hash_seconds", Help: "Password hashing latency."},
}

// HistogramBounds are the bucket upper bounds, in seconds, matching the
// Manager's millisecond buckets.
var HistogramBounds = []string{
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"1",
	"+Inf",
}

// HistogramBoundSuffix renders HistogramBounds as instrument name suffixes.
var HistogramBoundSuffix = []string{
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"1",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
