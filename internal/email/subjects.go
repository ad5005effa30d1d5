package email

const (
	subjectHandoffFmt         = "Nieuwe chat voor %s: %s"
	subjectHandoffCriticalFmt = "SPOED: chat voor %s: %s"
)
