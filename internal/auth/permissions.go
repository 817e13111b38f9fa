package auth

// Permission constants define the granular capabilities in the system.
// They gate specific end-user actions; the administrative surface is gated
// by the coarse role label instead (see Service.IsAdministrator).
const (
	// PermCreateTicket allows creating new tickets.
	PermCreateTicket = "create_ticket"
	// PermViewTicket allows viewing tickets.
	PermViewTicket = "view_ticket"
	// PermReplyTicket allows replying to tickets.
	PermReplyTicket = "reply_ticket"
	// PermEditTicket allows editing ticket fields.
	PermEditTicket = "edit_ticket"
	// PermDeleteTicket allows deleting tickets.
	PermDeleteTicket = "delete_ticket"
)

// legacyFlagPermissions maps permission names onto the legacy boolean user
// flags. The table is fixed: permission names outside it never resolve true
// through the legacy-flag source.
var legacyFlagPermissions = []string{
	PermCreateTicket,
	PermViewTicket,
	PermReplyTicket,
	PermEditTicket,
	PermDeleteTicket,
}
