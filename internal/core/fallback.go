package core

import "strings"

// DefaultFallbackResponse is returned when no category trigger matches.
const DefaultFallbackResponse = "I'm not sure I understand your question about BBC College. Could you please rephrase it? I can help with information about admissions, courses, fees, facilities, placements, faculty, and other aspects of our college. You can also visit our website https://bbc.edu.in/ for detailed information."

// FallbackCategory maps lower-case trigger substrings to one canned reply.
type FallbackCategory struct {
	Name     string
	Triggers []string
	Response string
}

// FallbackTable is an ordered rule list. Order is the tie-break: the first
// category with any matching trigger wins.
type FallbackTable struct {
	categories []FallbackCategory
	defaultMsg string
}

func NewFallbackTable(categories []FallbackCategory, defaultResponse string) *FallbackTable {
	return &FallbackTable{categories: categories, defaultMsg: defaultResponse}
}

// DefaultFallbackTable returns the college's built-in rule table.
func DefaultFallbackTable() *FallbackTable {
	return NewFallbackTable(defaultCategories, DefaultFallbackResponse)
}

// Categories returns a copy of the rule list in match order.
func (t *FallbackTable) Categories() []FallbackCategory {
	out := make([]FallbackCategory, len(t.categories))
	copy(out, t.categories)
	return out
}

// Resolve returns the reply and the matched category name. The name is
// empty when the default reply is used.
func (t *FallbackTable) Resolve(message string) (string, string) {
	lower := strings.ToLower(message)
	for _, category := range t.categories {
		for _, trigger := range category.Triggers {
			if strings.Contains(lower, trigger) {
				return category.Response, category.Name
			}
		}
	}
	return t.defaultMsg, ""
}

var defaultCategories = []FallbackCategory{
	{
		Name:     "admission",
		Triggers: []string{"admission", "admit", "apply", "application", "enroll", "enrollment"},
		Response: "BBC College offers admissions to various undergraduate and postgraduate programs. The admission process typically begins in May each year. You'll need to submit your academic transcripts, identification documents, and complete the application form available on our website or at the admission office.",
	},
	{
		Name:     "courses",
		Triggers: []string{"course", "program", "degree", "study", "major", "curriculum", "bachelor", "master", "bba", "bca", "mba"},
		Response: "BBC College offers a wide range of programs including:\n\n- BBA (Bachelor of Business Administration)\n- BCA (Bachelor of Computer Applications)\n- MBA (Master of Business Administration)\n- Various other undergraduate and postgraduate programs\n\nVisit our website https://bbc.edu.in/ for detailed information about each program.",
	},
	{
		Name:     "fees",
		Triggers: []string{"fee", "cost", "tuition", "price", "payment", "financial", "scholarship"},
		Response: "The fee structure varies by program at BBC College. For detailed information about tuition fees, payment schedules, and scholarship opportunities, please contact our admission office at +91-XXXXXXXXXX or visit our campus. We offer various scholarship programs for deserving students.",
	},
	{
		Name:     "contact",
		Triggers: []string{"contact", "email", "phone", "address", "location", "where", "visit"},
		Response: "You can contact BBC College at:\n\nAddress: BBC Educational Campus, [City/Area], [State], India\nPhone: +91-XXXXXXXXXX\nEmail: info@bbc.edu.in\nWebsite: https://bbc.edu.in/\n\nVisit our website for more contact details and location information.",
	},
	{
		Name:     "facility",
		Triggers: []string{"facility", "library", "lab", "laboratory", "hostel", "accommodation", "sports", "canteen"},
		Response: "BBC College provides excellent facilities including:\n- Well-equipped library with extensive resources\n- Modern computer labs with latest technology\n- Science laboratories for practical learning\n- Hostel accommodation for outstation students\n- Sports facilities and playground\n- Cafeteria serving hygienic food\n\nVisit our campus to see these facilities firsthand.",
	},
	{
		Name:     "placement",
		Triggers: []string{"placement", "job", "career", "internship", "company", "recruitment"},
		Response: "BBC College has a dedicated placement cell that works with various industries to provide placement opportunities for our students. We have a good track record of placements in reputed companies. The placement cell also organizes training programs, workshops, and pre-placement talks to prepare students for their careers.",
	},
	{
		Name:     "about",
		Triggers: []string{"about", "history", "establish", "found", "vision", "mission"},
		Response: "BBC College is a premier educational institution committed to providing quality education. We focus on holistic development of students through academic excellence, extracurricular activities, and value-based education. Our vision is to create responsible citizens and future leaders through innovative teaching methods and practical learning experiences.",
	},
	{
		Name:     "greeting",
		Triggers: []string{"hi", "hello", "hey", "greetings", "good morning", "good afternoon", "good evening"},
		Response: "Hello! Welcome to BBC College enquiry chatbot. How can I assist you with information about our college today?",
	},
	{
		Name:     "thanks",
		Triggers: []string{"thank", "thanks", "appreciate", "grateful"},
		Response: "You're welcome! Is there anything else you'd like to know about BBC College? Feel free to ask any questions about admissions, courses, facilities, or any other aspect of our college.",
	},
	{
		Name:     "goodbye",
		Triggers: []string{"bye", "goodbye", "see you", "farewell", "exit", "quit"},
		Response: "Thank you for contacting BBC College. Have a great day! If you have more questions later, feel free to chat with us again. You can also visit our website https://bbc.edu.in/ for more information.",
	},
	{
		Name:     "website",
		Triggers: []string{"website", "online", "portal", "web", "internet"},
		Response: "Our official website is https://bbc.edu.in/. You can find detailed information about all our programs, admission procedures, faculty, facilities, and much more on our website. You can also contact us through the website for specific queries.",
	},
	{
		Name:     "faculty",
		Triggers: []string{"faculty", "professor", "teacher", "instructor", "lecturer", "staff"},
		Response: "BBC College has highly qualified and experienced faculty members who are dedicated to providing quality education. Our teachers are experts in their respective fields and use innovative teaching methods to ensure effective learning. Many of our faculty members have industry experience and advanced degrees.",
	},
	{
		Name:     "timing",
		Triggers: []string{"timing", "time", "hour", "schedule", "when", "open", "close"},
		Response: "The college timing is typically from 9:00 AM to 4:00 PM, Monday to Friday. However, specific timings may vary for different programs and departments. The administrative office is open from 9:00 AM to 5:00 PM on working days. Please contact the college for specific schedule information.",
	},
}
