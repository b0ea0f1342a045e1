package pipeline

import (
	"fmt"

	"github.com/sells-group/prospect-cli/internal/model"
)

// analysisSystemPrompt frames every request. It is constant across rows so it
// is sent as a cached system block.
const analysisSystemPrompt = "You are a marketing consultant tasked with analyzing businesses. " +
	"You will be provided company information and must return a structured JSON analysis " +
	"with recommendations and a sales script."

// analysisPrompt is the fixed per-row prompt. The template never branches on
// field content; only the four company fields vary between rows.
const analysisPrompt = `I need you to analyze this company:

Company Name: %s
Phone Number: %s
City: %s
State: %s

Please search for information about this company and provide the following:
1. Do they have a website? If yes, provide the URL.
2. What type of website do they have (professional, outdated, mobile-friendly, etc.)?
3. Could they benefit from a professional website remake? Why?
4. Find any social media profiles for this company.
5. Find any business directories they're listed in.
6. What type of business are they?
7. Based on your analysis, what services would benefit them the most?
8. Write a sales script tailored to their specific needs based on your findings.

Format your response in a JSON structure with the following keys:
- company_name
- has_website (true/false)
- website_url (if any)
- website_notes
- needs_website_remake (true/false)
- business_type
- social_media_links (as an array)
- directory_listings (as an array)
- recommended_services (as an array)
- sales_script

Only return the JSON with no other text.`

// BuildAnalysisPrompt renders the analysis prompt for one company row.
func BuildAnalysisPrompt(c model.Company) string {
	return fmt.Sprintf(analysisPrompt, c.Name, c.PhoneNumber, c.City, c.State)
}
