package models

// Setting maps to the `setting` table (single-row config table).
type Setting struct {
	ID                       uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TicketSystemEnabled      bool   `gorm:"column:ticket_system_enabled;default:true" json:"ticket_system_enabled"`
	MaxPendingTickets        int    `gorm:"column:max_pending_tickets;default:3" json:"max_pending_tickets"`
	TicketDedupWindowMinutes int    `gorm:"column:ticket_dedup_window_minutes;default:5" json:"ticket_dedup_window_minutes"`
	AdminChatID              string `gorm:"column:admin_chat_id;size:100" json:"admin_chat_id"`
	PanelName                string `gorm:"column:panel_name;size:200" json:"panel_name"`
}

func (Setting) TableName() string {
	return "setting"
}
