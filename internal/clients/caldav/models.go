package caldav

// Calendar is one calendar collection discovered on the server.
type Calendar struct {
	Path        string
	DisplayName string
}
