package jobs

type JobType string

const (
	JobWelcomeNotification JobType = "welcome.notification"
	JobLargeTxnAlert       JobType = "large_txn.alert"
)

func (t JobType) IsValid() bool {
	switch t {
	case JobWelcomeNotification, JobLargeTxnAlert:
		return true
	default:
		return false
	}
}
