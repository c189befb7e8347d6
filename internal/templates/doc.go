// Package templates manages named intervention templates: a shipped builtin
// set merged with a JSON file of user-saved templates, hot-reloaded on file
// change.
package templates
