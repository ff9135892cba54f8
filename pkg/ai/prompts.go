package ai

// ExtractPrompt instructs the model to pull timeline events out of an
// investigative document. The first %s is the document filename, the
// second is the bounded document text. The response must be a JSON array;
// it is still parsed defensively because models wrap or mangle their
// output often enough.
const ExtractPrompt = `Extract timeline events from this investigative document. For each significant event, provide:
- title: Brief descriptive title (max 80 chars)
- summary: Detailed description
- date: Date in YYYY-MM-DD format (null if not found)
- location: Specific location/address (null if not found)
- participants: List of people/organizations involved

Focus on: meetings, transactions, announcements, approvals, signings, filings, investigations.

Return ONLY a JSON array, no prose:
[{"title": "Event Title", "summary": "Detailed description", "date": "2024-01-15", "location": "New York City", "participants": ["John Doe", "Acme Corp"]}]

Document: %s

Document text:
%s`

// SummaryPrompt asks for a structured investigation summary over an
// already-projected timeline. The first %s is the investigation title,
// the second is the rendered timeline context.
const SummaryPrompt = `You are an investigative journalism assistant. Analyze this timeline of extracted events and produce an investigation summary.

Investigation: %s

Timeline:
%s

Create an executive summary, the key findings, and the most significant timeline highlights. Ground every statement in the events above; do not invent dates, names, or places.`
