package cli

const usageText = `
TripSync Client

Usage:
  tripsync [OPTIONS] COMMAND

Options:
  --version      Show version information
  --server URL   Server URL (default: http://localhost:8080)
  --db PATH      Path to local database (default: tripsync-client.db)

Commands:
  register                              Create an account and sign in
  login                                 Sign in to the server
  logout                                Drop the local session
  status                                Show session and sync state
  trip add                              Create a trip
  trip list                             List trips
  trip show <id>                        Show a trip with its itinerary
  trip edit <id>                        Edit a trip
  trip delete <id>                      Delete a trip
  itinerary add <trip-id>               Add an itinerary item
  itinerary list <trip-id>              List a trip's itinerary
  itinerary edit <item-id>              Edit an itinerary item
  itinerary delete <item-id>            Delete an itinerary item
  poll create <trip-id>                 Open a group decision poll
  poll list <trip-id>                   List a trip's polls
  poll option <poll-id>                 Add a poll answer
  poll vote <poll-id> <option-id>       Cast or change your vote
  poll results <poll-id>                Show vote counts
  poll close <poll-id>                  Close a poll
  chat <trip-id>                        Join the trip's chat room
  sync                                  Push and pull changes now
  conflicts list                        List conflicts awaiting a decision
  conflicts resolve <queue-id> <mine|theirs>
                                        Resolve a conflict

Everything works offline; changes queue locally and sync when the server
is reachable again.
`

const tripListTemplate = `
=== Trips ===
{{- if eq (len .) 0 }}

No trips yet. Use 'tripsync trip add' to plan your first one.
{{ else }}

Found {{len .}} trip(s):
{{ range . }}
- {{ .Title }}
   ID:          {{ .ID }}
   Destination: {{ .Destination }}
   {{- if .StartDate }}
   Dates:       {{ .StartDate }}{{ if .EndDate }} to {{ .EndDate }}{{ end }}
   {{- end }}
{{ end }}
Use 'tripsync trip show <id>' for the full plan.
{{- end }}
`

const tripDetailTemplate = `
=== {{ .Title }} ===

ID:          {{ .ID }}
Destination: {{ .Destination }}
{{- if .StartDate }}
Dates:       {{ .StartDate }}{{ if .EndDate }} to {{ .EndDate }}{{ end }}
{{- end }}
{{- if .Description }}

{{ .Description }}
{{- end }}
`

const itineraryListTemplate = `
=== Itinerary ===
{{- if eq (len .) 0 }}

Nothing planned yet. Use 'tripsync itinerary add <trip-id>'.
{{ else }}
{{ range . }}
{{ .Position }}. {{ .Title }}
   ID:       {{ .ID }}
   {{- if .Location }}
   Location: {{ .Location }}
   {{- end }}
   {{- if .StartsAt }}
   When:     {{ .StartsAt }}{{ if .EndsAt }} to {{ .EndsAt }}{{ end }}
   {{- end }}
   {{- if .Notes }}
   Notes:    {{ .Notes }}
   {{- end }}
{{ end }}
{{- end }}
`

const pollListTemplate = `
=== Polls ===
{{- if eq (len .) 0 }}

No polls for this trip.
{{ else }}
{{ range . }}
- {{ .Question }}{{ if .Closed }} (closed){{ end }}
   ID: {{ .ID }}
   {{- if .ClosesAt }}
   Closes: {{ .ClosesAt }}
   {{- end }}
{{ end }}
{{- end }}
`

const pollResultsTemplate = `
=== Results ===
{{- if eq (len .) 0 }}

This poll has no options yet.
{{ else }}
{{ range . }}
{{ printf "%3d" .Votes }}  {{ .Text }}  ({{ .ID }})
{{- end }}
{{ end }}
`

const conflictListTemplate = `
=== Conflicts ===
{{- if eq (len .) 0 }}

No conflicts. Everything merged cleanly.
{{ else }}
{{ range . }}
- Queue #{{ .QueueID }}: {{ .EntityType }} {{ .EntityID }}
   Yours:   {{ printf "%s" .ClientPayload }}
   Theirs:  {{ if .ServerPayload }}{{ printf "%s" .ServerPayload }}{{ else }}(deleted){{ end }}
{{ end }}
Resolve with 'tripsync conflicts resolve <queue-id> <mine|theirs>'.
{{- end }}
`
