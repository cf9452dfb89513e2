package actionable

// Response is a suggested answer to a common objection.
type Response struct {
	Objection string `json:"objection" yaml:"objection"`
	Response  string `json:"response" yaml:"response"`
}

// Playbook returns the fixed objection responses shown next to coaching tips.
func Playbook() []Response {
	return []Response{
		{
			Objection: "Price",
			Response:  "'I understand budget considerations are important. Many of our customers initially had similar concerns until they saw the ROI within the first 90 days. Would it help if I shared a case study showing the exact timeline to value?'",
		},
		{
			Objection: "Need more time",
			Response:  "'I completely understand. This is an important decision. What specific information would make you more comfortable moving forward now? I can focus on those areas to help you make a confident decision.'",
		},
		{
			Objection: "Need to consult others",
			Response:  "'That makes perfect sense. Who else is typically involved in these decisions? I'd be happy to join a call to address any questions they might have directly.'",
		},
		{
			Objection: "Current solution works fine",
			Response:  "'I'm glad to hear your current solution is working. Many of our clients were in a similar position before they realized they were leaving significant [efficiency/revenue/savings] on the table. Could I show you a quick comparison?'",
		},
	}
}
