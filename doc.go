// Package main provides the entry point for the GoHelpdesk application.
// It initializes and runs a web server using the Fiber framework through
// which users open support tickets, follow their threads and exchange
// private messages, while administrators triage tickets and manage user
// permissions. The application uses gorm for data persistence and streams
// live lifecycle notifications to connected browsers.
package main
