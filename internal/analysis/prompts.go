package analysis

import (
	"fmt"
	"strings"

	"huddleboard/internal/models"
)

// huddleAnalysisPrompt asks the model to turn a huddle transcript into a
// summary plus action items, answering with bare JSON.
const huddleAnalysisPrompt = `
You are an AI assistant for a fine dining restaurant. Analyze the following transcribed morning huddle meeting and extract key information and action items.

Transcription:
%s

Your task is to:
1. Create a concise summary of the morning huddle discussion (max 3 paragraphs)
2. Extract specific items that need attention today (VIP guests, special dietary needs, special occasions)
3. List specific action items for the staff

Format your response as a JSON object with the following structure:
{"summary": "Summary of the meeting",
"action_items": ["List of action items that need attention (VIP guests, special dietary needs, special occasions)"],}

Respond ONLY with the JSON. Do not include any explanatory text.
`

// followUpPrefix opens the diner follow-up prompt before the per-diner
// blocks are appended.
const followUpPrefix = `
You are an AI assistant for a fine dining restaurant. Analyze the following diners' information and identify which diners need follow-up based on their emails. Focus on diners who have specific questions, requests, or concerns that need addressing.

For each diner that needs follow-up, explain what needs to be addressed.

Here is the diner information:`

// followUpSuffix closes the diner follow-up prompt with the response
// contract: a bare JSON array of {Name, Reservation, Reason} objects.
const followUpSuffix = `

---

## ANALYSIS INSTRUCTIONS

Based on the information above, analyze which diners need follow-up based on their email inquiries.

IMPORTANT: You must respond ONLY with a JSON array. Do not include any explanatory text before or after the JSON.

Each diner requiring follow-up should be included as an object in the array with these exact keys:
- "Name": The diner's full name (string)
- "Reservation": The reservation date in YYYY-MM-DD format (string)
- "Reason": A concise reason why follow-up is needed (string)

### Rules for determining if follow-up is needed:
1. ONLY include diners who have specific questions, requests, or concerns in their emails
2. DO NOT include diners whose inquiries are only about dietary preferences or special occasions
3. If no diners need follow-up, return an empty array: []

### Example of expected response format:
[
  {
    "Name": "Emily Chen",
    "Reservation": "2024-05-20",
    "Reason": "Request to adjust table for an additional guest"
  },
  {
    "Name": "David Martinez",
    "Reservation": "2024-05-20",
    "Reason": "Inquiry about availability of private dining area"
  }
]`

// BuildHuddlePrompt formats the huddle analysis prompt for a transcript.
func BuildHuddlePrompt(transcript string) string {
	return fmt.Sprintf(huddleAnalysisPrompt, transcript)
}

// BuildFollowUpPrompt renders the follow-up prompt for a batch of diners
// and reports how many of them have email inquiries. A zero count means
// the batch has nothing to analyze and no LLM call is needed.
func BuildFollowUpPrompt(batch []models.Diner) (string, int) {
	var b strings.Builder
	b.WriteString(followUpPrefix)

	withEmails := 0
	for _, diner := range batch {
		name := diner.Name
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&b, "\n\n### Diner: %s", name)
		if len(diner.Reservations) > 0 {
			fmt.Fprintf(&b, "\nReservation Date: %s", diner.FirstReservationDate())
		}
		if diner.HasEmails() {
			withEmails++
			b.WriteString("\nEmail Inquiries:")
			for _, email := range diner.Emails {
				subject := email.Subject
				if subject == "" {
					subject = "No subject"
				}
				thread := email.Thread()
				if thread == "" {
					thread = "No content"
				}
				fmt.Fprintf(&b, "\n- **Subject:** %s\n  **Content:** %s", subject, thread)
			}
		}
	}

	b.WriteString(followUpSuffix)
	return b.String(), withEmails
}
