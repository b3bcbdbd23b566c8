package response

type AgentInstructions struct {
	AgentID      string `json:"agentId"`
	Instructions string `json:"instructions"`
}
