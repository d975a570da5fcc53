package repoargs

type RepositoryName string

const (
	UserRepoName        RepositoryName = "user"
	BillRepoName        RepositoryName = "bill"
	ParticipantRepoName RepositoryName = "bill_participant"
	PaymentRepoName     RepositoryName = "payment"
	AccountRepoName     RepositoryName = "bank_account"
)
