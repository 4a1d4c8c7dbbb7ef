package help

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help information for all check-in form fields
var Texts = map[string]HelpText{
	"first_name": {
		Title:       "FIRST NAME",
		Description: "Your given name as it appears on your ID.",
	},
	"last_name": {
		Title:       "LAST NAME",
		Description: "Your family name as it appears on your ID.",
	},
	"dob": {
		Title:       "DATE OF BIRTH",
		Description: "Month, day and year you were born.",
		Details:     "Format: MM/DD/YYYY (e.g., 03/14/1990)",
	},
	"gender": {
		Title:       "GENDER",
		Description: "Select the option you identify with.",
		Details:     "Choose \"Prefer not to say\" to skip.",
	},
	"civil_status": {
		Title:       "CIVIL STATUS",
		Description: "Your current marital status. Optional.",
	},
	"phone": {
		Title:       "MOBILE NUMBER",
		Description: "We will text you when it is your turn.",
		Details:     "Format: 09XXXXXXXXX or +639XXXXXXXXX",
	},
	"address_line1": {
		Title:       "ADDRESS",
		Description: "House number and street.",
	},
	"address_line2": {
		Title:       "ADDRESS (LINE 2)",
		Description: "Barangay, building or unit. Optional.",
	},
	"city": {
		Title:       "CITY",
		Description: "City or municipality.",
	},
	"state": {
		Title:       "PROVINCE",
		Description: "Province or region.",
	},
	"zip_code": {
		Title:       "ZIP CODE",
		Description: "Four-digit postal code.",
		Details:     "Example: 1100 for Quezon City",
	},
	"guardian_name": {
		Title:       "GUARDIAN NAME",
		Description: "Parent or guardian for minors. Optional.",
	},
	"guardian_phone": {
		Title:       "GUARDIAN PHONE",
		Description: "Contact number of the guardian. Optional.",
		Details:     "Same format as the mobile number.",
	},
	"review_action": {
		Title:       "REVIEW",
		Description: "Check your details before submitting.",
		Details:     "Pick a section to correct it, or Submit to finish check-in.",
	},
	"hospital_name": {
		Title:       "HOSPITAL NAME",
		Description: "Shown on the welcome screen and the receipt.",
	},
	"kiosk_id": {
		Title:       "KIOSK ID",
		Description: "Identifies this device on assistance requests.",
	},
	"enabled_vitals": {
		Title:       "VITAL SIGNS",
		Description: "Vitals measured during check-in.",
		Details:     "Changes apply from the next session.",
	},
}
