// Package notify defines the Notifier collaborator used to surface transient
// success and failure messages (toasts) to the visitor. The form lifecycle
// only ever calls Announce; how a notification is displayed belongs to the
// host (browser session, terminal, log).
package notify
