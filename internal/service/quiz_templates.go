package service

import "strings"

// Question template kinds. The kind decides how the correct answer and the
// distractor pool are derived.
type templateKind string

const (
	kindDefinition     templateKind = "definition"
	kindApplication    templateKind = "application"
	kindExample        templateKind = "example"
	kindTrueFalse      templateKind = "true_false"
	kindTimeComplexity templateKind = "time_complexity"
	kindUseCase        templateKind = "use_case"
)

// questionTemplate is one course question form. Text contains the
// {key_point} placeholder. For true/false templates the answer is True
// when the key point contains any of TrueSubstrings (or appears in
// TrueExact); a template with neither is always True.
type questionTemplate struct {
	Kind           templateKind
	Text           string
	TrueSubstrings []string
	TrueExact      []string
}

// correctAnswerFor derives the correct answer text for a template applied
// to a key point.
func correctAnswerFor(t questionTemplate, keyPoint string) string {
	switch t.Kind {
	case kindTrueFalse:
		if len(t.TrueSubstrings) == 0 && len(t.TrueExact) == 0 {
			return "True"
		}
		for _, sub := range t.TrueSubstrings {
			if strings.Contains(keyPoint, sub) {
				return "True"
			}
		}
		for _, exact := range t.TrueExact {
			if keyPoint == exact {
				return "True"
			}
		}
		return "False"
	case kindTimeComplexity:
		if c, ok := complexityByAlgorithm[keyPoint]; ok {
			return c
		}
		return "O(n^2)"
	case kindUseCase:
		if u, ok := useCaseByAlgorithm[keyPoint]; ok {
			return u
		}
		return "General-purpose sorting"
	default:
		return keyPoint
	}
}

var complexityByAlgorithm = map[string]string{
	"Bubble Sort":    "O(n^2)",
	"Selection Sort": "O(n^2)",
	"Insertion Sort": "O(n^2)",
	"Merge Sort":     "O(n log n)",
	"Quick Sort":     "O(n log n)",
	"Heap Sort":      "O(n log n)",
	"Radix Sort":     "O(nk)",
	"Bucket Sort":    "O(n + k)",
	"Counting Sort":  "O(n + k)",
	"Shell Sort":     "O(n^1.3)",
}

var useCaseByAlgorithm = map[string]string{
	"Bubble Sort":    "Small datasets with few swaps",
	"Selection Sort": "Minimizing swaps",
	"Insertion Sort": "Nearly sorted data",
	"Merge Sort":     "Large datasets with stable sorting",
	"Quick Sort":     "General-purpose sorting",
	"Heap Sort":      "Guaranteed O(n log n) with in-place sorting",
	"Radix Sort":     "Integer sorting with fixed-length keys",
	"Bucket Sort":    "Uniformly distributed data",
	"Counting Sort":  "Small range of integers",
	"Shell Sort":     "Medium-sized datasets",
}

// Fixed distractor pools for the Algorithms answer-table templates.
var (
	complexityDistractors = []string{"O(n)", "O(n^2)", "O(n log n)", "O(nk)", "O(n + k)"}

	useCaseDistractors = []string{
		"Small datasets with few swaps", "Minimizing swaps", "Nearly sorted data",
		"Large datasets with stable sorting", "General-purpose sorting",
		"Guaranteed O(n log n) with in-place sorting", "Integer sorting with fixed-length keys",
		"Uniformly distributed data", "Small range of integers", "Medium-sized datasets",
	}
)

// genericFallbackConcepts seed key points and distractors for courses with
// no curated subtopics.
var genericFallbackConcepts = []string{"Concept A", "Concept B", "Concept C"}

// courseSubtopics supplies curated distractors per course.
var courseSubtopics = map[string][]string{
	"Architectural Design":  {"Sustainable Design", "Interior Architecture", "Landscape Architecture"},
	"Building Construction": {"Construction Materials", "Structural Systems", "Construction Management"},
	"Urban Planning":        {"City Planning", "Urban Design", "Transportation Planning"},

	"Structural Analysis":        {"Finite Element Analysis", "Structural Dynamics", "Bridge Design"},
	"Environmental Engineering":  {"Water Treatment", "Waste Management", "Air Quality Control"},
	"Transportation Engineering": {"Traffic Engineering", "Pavement Design", "Transport Modeling"},

	"Data Structures": {"Arrays and Linked Lists", "Trees and Graphs", "Hash Tables"},
	"Algorithms": {
		"Sorting Algorithms", "Graph Algorithms", "Dynamic Programming",
		"Bubble Sort", "Selection Sort", "Insertion Sort", "Merge Sort", "Quick Sort",
		"Heap Sort", "Radix Sort", "Bucket Sort", "Counting Sort", "Shell Sort",
	},
	"Database Systems": {"Database Management", "SQL Queries", "NoSQL Databases"},

	"Circuit Analysis": {"AC/DC Circuits", "Network Theorems", "Transient Analysis"},
	"Power Systems":    {"Power Generation", "Transmission Lines", "Power Distribution"},
	"Microprocessors":  {"Microprocessor Architecture", "Assembly Language", "Interfacing Techniques"},

	"Wireless Communication": {"Mobile Networks", "Wireless Protocols", "Antenna Design"},
	"Signal Processing":      {"Digital Signal Processing", "Fourier Transforms", "Filter Design"},
	"Network Security":       {"Cryptography", "Firewall Systems", "Ethical Hacking"},

	"Genetic Engineering": {"Gene Cloning", "CRISPR Technology", "Recombinant DNA"},
	"Molecular Biology":   {"DNA Replication", "Protein Synthesis", "Gene Expression"},
	"Enzymology":          {"Enzyme Kinetics", "Enzyme Inhibition", "Cofactors and Coenzymes"},

	"Climate Change":         {"Global Warming", "Carbon Footprint", "Climate Modeling"},
	"Sustainability Science": {"Renewable Energy", "Sustainable Development", "Circular Economy"},
	"Environmental Policy":   {"Environmental Laws", "Policy Analysis", "International Agreements"},

	"Virology":     {"Viral Replication", "Vaccine Development", "Antiviral Drugs"},
	"Immunology":   {"Immune Response", "Antibodies", "Vaccines"},
	"Bacteriology": {"Bacterial Growth", "Antibiotics", "Pathogenic Bacteria"},

	"Pharmaceutical Chemistry": {"Drug Synthesis", "Medicinal Chemistry", "Pharmacokinetics"},
	"Pharmacology":             {"Drug Action", "Therapeutics", "Side Effects"},
	"Pharmaceutics":            {"Drug Delivery Systems", "Formulation Development", "Biopharmaceutics"},

	"Marketing Management":      {"Market Research", "Branding Strategies", "Digital Marketing"},
	"Financial Accounting":      {"Balance Sheets", "Income Statements", "Cash Flow Analysis"},
	"Human Resource Management": {"Recruitment Strategies", "Employee Motivation", "Performance Appraisal"},

	"Literary Theory":  {"Structuralism", "Postmodernism", "Feminist Criticism"},
	"Linguistics":      {"Phonetics", "Syntax", "Semantics"},
	"Creative Writing": {"Fiction Writing", "Poetry", "Screenwriting"},

	"Constitutional Law": {"Fundamental Rights", "Judicial Review", "Separation of Powers"},
	"Criminal Law":       {"Criminal Procedure", "Evidence Law", "Penal Code"},
	"International Law":  {"Treaty Law", "Human Rights Law", "Law of the Sea"},

	"Media Ethics":         {"Journalistic Integrity", "Media Bias", "Privacy Issues"},
	"Broadcast Journalism": {"News Production", "TV Reporting", "Radio Broadcasting"},
	"Advertising":          {"Ad Campaigns", "Consumer Behavior", "Media Planning"},
}

// courseTemplates supplies the per-course question forms; courses without
// an entry use the generic set.
var courseTemplates = map[string][]questionTemplate{
	"Architectural Design": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to achieve {key_point} in architecture?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} a sustainable practice in architecture?", TrueSubstrings: []string{"Sustainable"}},
	},
	"Building Construction": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is critical for {key_point} in construction?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} a structural component in building construction?", TrueSubstrings: []string{"Structural"}},
	},
	"Urban Planning": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to improve {key_point} in urban areas?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} focus on transportation in urban planning?", TrueSubstrings: []string{"Transportation"}},
	},
	"Structural Analysis": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which method is used in {key_point} for structural analysis?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} used in bridge design?", TrueSubstrings: []string{"Bridge"}},
	},
	"Environmental Engineering": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to address {key_point} in environmental engineering?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} focus on water quality?", TrueSubstrings: []string{"Water"}},
	},
	"Transportation Engineering": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to improve {key_point} in transportation systems?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} related to traffic flow?", TrueSubstrings: []string{"Traffic"}},
	},
	"Data Structures": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindExample, Text: "Which of the following is an example of {key_point}?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} a linear data structure?", TrueSubstrings: []string{"Arrays", "Linked Lists"}},
	},
	"Algorithms": {
		{Kind: kindDefinition, Text: "Which sorting algorithm is represented by {key_point}?"},
		{Kind: kindTimeComplexity, Text: "What is the average time complexity of {key_point}?"},
		{Kind: kindUseCase, Text: "Which scenario is {key_point} best suited for?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} a stable sorting algorithm?", TrueExact: []string{"Merge Sort", "Insertion Sort", "Bubble Sort", "Radix Sort", "Counting Sort", "Bucket Sort"}},
	},
	"Database Systems": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindExample, Text: "Which of the following is an example of {key_point}?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} a relational database concept?", TrueSubstrings: []string{"SQL"}},
	},
	"Circuit Analysis": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to analyze {key_point} in circuits?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} apply to AC circuits?", TrueSubstrings: []string{"AC"}},
	},
	"Power Systems": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is critical for {key_point} in power systems?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} related to power generation?", TrueSubstrings: []string{"Generation"}},
	},
	"Microprocessors": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used in {key_point} for microprocessors?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve programming in assembly language?", TrueSubstrings: []string{"Assembly"}},
	},
	"Wireless Communication": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to improve {key_point} in wireless systems?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} related to mobile networks?", TrueSubstrings: []string{"Mobile"}},
	},
	"Signal Processing": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used in {key_point} for signal processing?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve Fourier transforms?", TrueSubstrings: []string{"Fourier"}},
	},
	"Network Security": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to ensure {key_point} in network security?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} a method to prevent cyber attacks?", TrueSubstrings: []string{"Firewall", "Cryptography"}},
	},
	"Genetic Engineering": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used in {key_point} for genetic engineering?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve gene editing?", TrueSubstrings: []string{"CRISPR"}},
	},
	"Molecular Biology": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is critical for {key_point} in molecular biology?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve DNA replication?", TrueSubstrings: []string{"DNA"}},
	},
	"Enzymology": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to study {key_point} in enzymology?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve enzyme kinetics?", TrueSubstrings: []string{"Kinetics"}},
	},
	"Climate Change": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to mitigate {key_point} in climate change?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} contribute to global warming?", TrueSubstrings: []string{"Carbon"}},
	},
	"Sustainability Science": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept promotes {key_point} in sustainability?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} related to renewable energy?", TrueSubstrings: []string{"Renewable"}},
	},
	"Environmental Policy": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to enforce {key_point} in environmental policy?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} an international agreement?", TrueSubstrings: []string{"International"}},
	},
	"Virology": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to study {key_point} in virology?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve vaccine development?", TrueSubstrings: []string{"Vaccine"}},
	},
	"Immunology": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is critical for {key_point} in immunology?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve the immune response?", TrueSubstrings: []string{"Immune"}},
	},
	"Bacteriology": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to address {key_point} in bacteriology?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve antibiotics?", TrueSubstrings: []string{"Antibiotics"}},
	},
	"Pharmaceutical Chemistry": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used in {key_point} for pharmaceutical chemistry?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve drug synthesis?", TrueSubstrings: []string{"Drug Synthesis"}},
	},
	"Pharmacology": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is critical for {key_point} in pharmacology?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} study drug action?", TrueSubstrings: []string{"Drug Action"}},
	},
	"Pharmaceutics": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used in {key_point} for pharmaceutics?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve drug delivery systems?", TrueSubstrings: []string{"Drug Delivery"}},
	},
	"Marketing Management": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to improve {key_point} in marketing?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} related to digital marketing?", TrueSubstrings: []string{"Digital"}},
	},
	"Financial Accounting": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to prepare {key_point} in financial accounting?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve balance sheets?", TrueSubstrings: []string{"Balance"}},
	},
	"Human Resource Management": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to enhance {key_point} in HR?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve employee motivation?", TrueSubstrings: []string{"Motivation"}},
	},
	"Literary Theory": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to analyze {key_point} in literary theory?"},
		{Kind: kindTrueFalse, Text: "Is {key_point} a feminist approach in literary theory?", TrueSubstrings: []string{"Feminist"}},
	},
	"Linguistics": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to study {key_point} in linguistics?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve phonetics?", TrueSubstrings: []string{"Phonetics"}},
	},
	"Creative Writing": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used in {key_point} for creative writing?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve poetry writing?", TrueSubstrings: []string{"Poetry"}},
	},
	"Constitutional Law": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is critical for {key_point} in constitutional law?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve judicial review?", TrueSubstrings: []string{"Judicial"}},
	},
	"Criminal Law": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used in {key_point} for criminal law?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve evidence law?", TrueSubstrings: []string{"Evidence"}},
	},
	"International Law": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to enforce {key_point} in international law?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve human rights law?", TrueSubstrings: []string{"Human Rights"}},
	},
	"Media Ethics": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to address {key_point} in media ethics?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve journalistic integrity?", TrueSubstrings: []string{"Journalistic"}},
	},
	"Broadcast Journalism": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used in {key_point} for broadcast journalism?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve TV reporting?", TrueSubstrings: []string{"TV"}},
	},
	"Advertising": {
		{Kind: kindDefinition, Text: "What is a key concept in {key_point}?"},
		{Kind: kindApplication, Text: "Which concept is used to improve {key_point} in advertising?"},
		{Kind: kindTrueFalse, Text: "Does {key_point} involve consumer behavior?", TrueSubstrings: []string{"Consumer"}},
	},
}

var genericTemplates = []questionTemplate{
	{Kind: kindDefinition, Text: "What is a key concept related to {key_point}?"},
	{Kind: kindExample, Text: "Which of the following is an example of {key_point}?"},
	{Kind: kindTrueFalse, Text: "Is {key_point} a fundamental concept?"},
}

func templatesForCourse(course string) []questionTemplate {
	if t, ok := courseTemplates[course]; ok {
		return t
	}
	return genericTemplates
}

func subtopicsForCourse(course string) []string {
	if s, ok := courseSubtopics[course]; ok {
		return s
	}
	return genericFallbackConcepts
}
