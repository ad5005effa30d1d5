package domain

// Departments.
const (
	DepartmentSales   = "sales"
	DepartmentSupport = "support"
	DepartmentGeneral = "general"
)

// RoutingEntry tells the caller where an intent belongs. Priority 1 is the
// most urgent queue.
type RoutingEntry struct {
	Department   string `json:"department"`
	Priority     int    `json:"priority"`
	AutoResponse bool   `json:"autoResponse"`
}

// Routing returns the routing entry for intent. Values outside the taxonomy
// get the unknown entry.
func Routing(intent Intent) RoutingEntry {
	switch intent {
	case IntentServiceInquiry, IntentServiceComparison:
		return RoutingEntry{Department: DepartmentSales, Priority: 3, AutoResponse: true}
	case IntentPricingRequest:
		return RoutingEntry{Department: DepartmentSales, Priority: 2, AutoResponse: true}
	case IntentTechnicalSupport:
		return RoutingEntry{Department: DepartmentSupport, Priority: 2, AutoResponse: false}
	case IntentUrgentIssue:
		return RoutingEntry{Department: DepartmentSupport, Priority: 1, AutoResponse: false}
	case IntentPasswordReset:
		return RoutingEntry{Department: DepartmentSupport, Priority: 3, AutoResponse: true}
	case IntentAccountIssue:
		return RoutingEntry{Department: DepartmentSupport, Priority: 2, AutoResponse: false}
	case IntentQuoteRequest, IntentDemoRequest, IntentContactSales:
		return RoutingEntry{Department: DepartmentSales, Priority: 2, AutoResponse: false}
	case IntentGeneralInformation, IntentFAQ:
		return RoutingEntry{Department: DepartmentGeneral, Priority: 4, AutoResponse: true}
	case IntentDocumentation:
		return RoutingEntry{Department: DepartmentSupport, Priority: 4, AutoResponse: true}
	case IntentNavigation, IntentSearch:
		return RoutingEntry{Department: DepartmentGeneral, Priority: 5, AutoResponse: true}
	case IntentScheduleMeeting:
		return RoutingEntry{Department: DepartmentSales, Priority: 3, AutoResponse: false}
	case IntentFileTicket:
		return RoutingEntry{Department: DepartmentSupport, Priority: 2, AutoResponse: false}
	case IntentFeedback:
		return RoutingEntry{Department: DepartmentGeneral, Priority: 4, AutoResponse: false}
	case IntentUnknown:
		return RoutingEntry{Department: DepartmentGeneral, Priority: 5, AutoResponse: false}
	default:
		return Routing(IntentUnknown)
	}
}

// SuggestedAction returns the recommended next step for intent.
func SuggestedAction(intent Intent) string {
	switch intent {
	case IntentServiceInquiry:
		return "Show service overview"
	case IntentServiceComparison:
		return "Show service comparison"
	case IntentPricingRequest:
		return "Show pricing information"
	case IntentTechnicalSupport:
		return "Connect to technical support"
	case IntentUrgentIssue:
		return "Escalate to on-call engineer"
	case IntentPasswordReset:
		return "Send password reset instructions"
	case IntentAccountIssue:
		return "Connect to account support"
	case IntentQuoteRequest:
		return "Open quote request form"
	case IntentDemoRequest:
		return "Schedule a demo"
	case IntentContactSales:
		return "Connect to sales"
	case IntentGeneralInformation:
		return "Show company information"
	case IntentDocumentation:
		return "Show documentation"
	case IntentFAQ:
		return "Show frequently asked questions"
	case IntentNavigation:
		return "Suggest relevant page"
	case IntentSearch:
		return "Run site search"
	case IntentScheduleMeeting:
		return "Open meeting scheduler"
	case IntentFileTicket:
		return "Open support ticket form"
	case IntentFeedback:
		return "Collect feedback"
	case IntentUnknown:
		return "Contact support"
	default:
		return SuggestedAction(IntentUnknown)
	}
}
