// ABOUTME: Static fallback data when OpenAI API key is not available.
// ABOUTME: Provides a diverse set of realistic-looking packs and phone numbers.

package seed

// generateStatic creates static fallback data.
func (g *Generator) generateStatic(numPacks, numNumbers int) *GeneratedData {
	data := &GeneratedData{
		Packs:   generateStaticPacks(numPacks),
		Numbers: generateStaticNumbers(numNumbers),
	}
	return data
}

func generateStaticPacks(count int) []PackData {
	templates := []PackData{
		{Name: "Weather Watch", ShortDescription: "Forecasts and current conditions for any city.", Description: "Pulls hourly and daily forecasts from public weather services. Includes a formula for current conditions and a sync table of saved locations.", Version: "3", MakerName: "Ada Lin", Published: true, Categories: []string{"Data", "Utilities"}, InstallCount: 18421},
		{Name: "SheetSync", ShortDescription: "Two-way sync with external spreadsheets.", Description: "Keeps rows in step with a remote spreadsheet. Handles column mapping and conflict resolution so edits flow both ways.", Version: "7", MakerName: "Marcus Webb", Published: true, Categories: []string{"Data"}, InstallCount: 44210},
		{Name: "Standup Notes", ShortDescription: "Collects daily standup updates from your team.", Description: "Posts a daily prompt and gathers replies into a table. Great for async teams across time zones.", Version: "2", MakerName: "Priya Nair", Published: true, Categories: []string{"Productivity", "Communication"}, InstallCount: 6210},
		{Name: "Invoice Tracker", ShortDescription: "Tracks invoices, due dates, and payment status.", Description: "Syncs invoices from your billing provider and flags overdue items. Includes totals by client and month.", Version: "5", MakerName: "Tom Okafor", Published: true, Categories: []string{"Finance"}, InstallCount: 12890},
		{Name: "CRM Connect", ShortDescription: "Brings your CRM contacts and deals into tables.", Description: "Syncs contacts, companies, and deal stages. Bidirectional edits push back to the CRM on save.", Version: "11", MakerName: "Elena Petrova", Published: true, Categories: []string{"Data", "Sales"}, InstallCount: 38772},
		{Name: "Unit Converter", ShortDescription: "Converts between common measurement units.", Description: "Formulas for length, weight, temperature, and currency conversion with daily rate updates.", Version: "1", MakerName: "Sam Becker", Published: true, Categories: []string{"Utilities"}, InstallCount: 2034},
		{Name: "Chat Relay", ShortDescription: "Sends table updates to your chat channels.", Description: "Posts formatted messages when rows change. Supports channel routing rules and quiet hours.", Version: "4", MakerName: "Yuki Tanaka", Published: true, Categories: []string{"Communication"}, InstallCount: 9511},
		{Name: "Issue Board", ShortDescription: "Mirrors your issue tracker into a sync table.", Description: "Pulls issues, labels, and assignees. Status edits sync back so triage can happen in either tool.", Version: "9", MakerName: "Dana Fox", Published: true, Categories: []string{"Productivity"}, InstallCount: 27118},
		{Name: "Recipe Box", ShortDescription: "A personal recipe collection with scaling.", Description: "Stores recipes with ingredient scaling formulas. Early prototype, not yet published to the gallery.", Version: "1", MakerName: "Leo Marchetti", Categories: []string{"Lifestyle"}, InstallCount: 12},
		{Name: "Fleet Monitor", ShortDescription: "Vehicle telemetry rollups for fleet managers.", Description: "Aggregates mileage, fuel, and maintenance alerts per vehicle. Built for a single customer workspace.", Version: "6", MakerName: "Grace Mwangi", Categories: []string{"Operations"}, InstallCount: 341},
		{Name: "Legacy Mailer", ShortDescription: "Bulk email sends from table rows.", Description: "Superseded by the platform's native automation. Kept for old documents that still reference it.", Version: "14", MakerName: "Marcus Webb", Published: true, Archived: true, Categories: []string{"Communication"}, InstallCount: 15602},
		{Name: "Stock Peek", ShortDescription: "Delayed stock quotes and simple charts.", Description: "Quote formulas with fifteen-minute delay and a watchlist sync table. Archived after the data provider shut down.", Version: "8", MakerName: "Ada Lin", Published: true, Archived: true, Categories: []string{"Finance", "Data"}, InstallCount: 8125},
	}

	// Return up to count packs, cycling through templates if needed
	result := make([]PackData, count)
	for i := 0; i < count; i++ {
		result[i] = templates[i%len(templates)]
	}
	return result
}

func generateStaticNumbers(count int) []NumberData {
	templates := []NumberData{
		{Number: "+16502530000", Label: "Main office", Verified: true},
		{Number: "+14155550132", Label: "Support line", Verified: true},
		{Number: "+12125550198", Label: "Sales hotline", Verified: true},
		{Number: "+16505550147", Label: "Ada Lin (mobile)", Verified: true},
		{Number: "+13105550112", Label: "Warehouse desk", Verified: false},
		{Number: "+442070313000", Label: "London office", Verified: true},
		{Number: "+33142685300", Label: "Paris office", Verified: false},
		{Number: "+81332245111", Label: "Tokyo office", Verified: true},
		{Number: "+15125550170", Label: "On-call pager", Verified: false},
		{Number: "+16465550184", Label: "Recruiting", Verified: false},
	}

	result := make([]NumberData, count)
	for i := 0; i < count; i++ {
		result[i] = templates[i%len(templates)]
	}
	return result
}
