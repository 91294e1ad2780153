package survey

import "strings"

// CompletionBucket is the single completion slot a response lands in.
// A response is counted completed exactly once (approved, rejected, or one of
// the two pending sub-buckets); incomplete is reserved for connected-but-
// abandoned interviews, and everything else stays out of completion counting.
type CompletionBucket string

const (
	BucketNone              CompletionBucket = ""
	BucketApproved          CompletionBucket = "approved"
	BucketRejected          CompletionBucket = "rejected"
	BucketUnderReviewQueue  CompletionBucket = "under_review_queue"
	BucketProcessingInBatch CompletionBucket = "processing_in_batch"
	BucketIncomplete        CompletionBucket = "incomplete"
)

// Completed reports whether the bucket counts toward the completed total.
func (b CompletionBucket) Completed() bool {
	switch b {
	case BucketApproved, BucketRejected, BucketUnderReviewQueue, BucketProcessingInBatch:
		return true
	default:
		return false
	}
}

// ParseApproval folds the review pipeline's free-text approval status.
func ParseApproval(raw string) ApprovalStatus {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, "-", "_")
	v = strings.ReplaceAll(v, " ", "_")
	switch v {
	case "approved", "approve":
		return ApprovalApproved
	case "rejected", "reject":
		return ApprovalRejected
	case "pending_qc", "pending", "pending_review":
		return ApprovalPendingQC
	default:
		return ApprovalNone
	}
}

// ClassifyCompletion determines the completion bucket for one response.
// batch may be nil when the response carries no batch reference or the
// referenced batch is missing; both degrade to processing_in_batch rather
// than failing the aggregation.
func ClassifyCompletion(approval ApprovalStatus, batch *Batch, isSample bool, label OutcomeLabel) CompletionBucket {
	switch approval {
	case ApprovalRejected:
		return BucketRejected
	case ApprovalApproved:
		return BucketApproved
	case ApprovalPendingQC:
		if batch == nil {
			return BucketProcessingInBatch
		}
		return PendingSubBucket(batch.Status, batch.RemainingDecision, isSample)
	default:
		// No approval recorded: only connected-but-abandoned interviews
		// count as incomplete. Everything else is already accounted for
		// by the dial/ring counters.
		if label.Connected() {
			return BucketIncomplete
		}
		return BucketNone
	}
}

// PendingSubBucket decides which pending sub-bucket a batched response is in.
// Precedence is fixed:
//  1. batch queued for review, a sampled response in an active or finished
//     batch, or a non-sampled response whose remaining-portion decision is
//     queued for review → under_review_queue
//  2. batch still collecting, or a non-sampled response while the sample is
//     being processed → processing_in_batch
//  3. anything unrecognized → processing_in_batch (safe default)
func PendingSubBucket(status, remaining BatchStatus, isSample bool) CompletionBucket {
	switch {
	case status == BatchQueuedForQC:
		return BucketUnderReviewQueue
	case isSample && (status == BatchProcessing || status == BatchCompleted):
		return BucketUnderReviewQueue
	case !isSample && remaining == BatchQueuedForQC:
		return BucketUnderReviewQueue
	case status == BatchCollecting:
		return BucketProcessingInBatch
	case status == BatchProcessing && !isSample:
		return BucketProcessingInBatch
	default:
		return BucketProcessingInBatch
	}
}
