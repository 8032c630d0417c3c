// Package admin serves the admin panel: the reconciled registrations view,
// search and sorting, spreadsheet export and the soft reset workflow.
//
// Controller also backs the public listing endpoints of the registration
// feature through the registration.Viewer interface.
package admin
