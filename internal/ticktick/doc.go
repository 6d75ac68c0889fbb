// Package ticktick provides a client for the TickTick Open API.
//
// The client covers the read-only surface this tool needs: listing the
// user's projects and fetching the tasks of a single project. API wire
// types are converted into clean Go types with parsed timestamps, so
// callers never deal with the API's date strings or numeric enums.
//
// OAuth2 endpoint constants and the oauth2.Config constructor for the
// TickTick provider also live here, next to the API they belong to.
package ticktick
