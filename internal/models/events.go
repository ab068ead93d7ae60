package models

// NoteCreated is published after a successful /process_audio run.
type NoteCreated struct {
	EventType     string   `json:"eventType"`
	SessionID     string   `json:"sessionId"`
	AudioFileName string   `json:"audioFileName"`
	Transcript    string   `json:"transcript"`
	Note          SOAPNote `json:"note"`
	Timestamp     int64    `json:"timestamp"`
}

// PlanApproved is published after /approve_plan executed its actions.
type PlanApproved struct {
	EventType      string `json:"eventType"`
	SessionID      string `json:"sessionId"`
	MedicineStatus string `json:"medicineStatus"`
	EmailStatus    string `json:"emailStatus,omitempty"`
	EmailSent      bool   `json:"emailSent"`
	Timestamp      int64  `json:"timestamp"`
}
