package mail

type JobFinishedEmailData struct {
	Name       string
	JobID      string
	Platform   string
	City       string
	Category   string
	Status     string
	LeadsFound int
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	dialer mailDialer
}
