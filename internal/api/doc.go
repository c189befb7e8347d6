// Package api serves the REST surface: intervention evaluation, homeostasis
// and SDG alignment reads, history, template CRUD and report downloads, as
// JSON over /api/v1/*.
package api
