package taxonomy

import (
	"sort"
	"strings"
)

// Tool categories.
const (
	CategoryCRM             = "CRM"
	CategoryLanguages       = "Languages"
	CategoryFrameworks      = "Frameworks"
	CategoryCloud           = "Cloud"
	CategoryDatabases       = "Databases"
	CategoryAIML            = "AI/ML"
	CategoryAnalytics       = "Analytics"
	CategoryDesign          = "Design"
	CategoryCommunication   = "Communication"
	CategoryPayments        = "Payments"
	CategorySalesEngagement = "Sales Engagement"
	CategoryHR              = "HR"
)

var categories = []string{
	CategoryCRM, CategoryLanguages, CategoryFrameworks, CategoryCloud, CategoryDatabases, CategoryAIML,
	CategoryAnalytics, CategoryDesign, CategoryCommunication, CategoryPayments, CategorySalesEngagement, CategoryHR,
}

// ToolMatch is a tool found in a piece of text.
type ToolMatch struct {
	Name     string
	Category string
}

func tool(category, name string, aliases ...string) Tool {
	if len(aliases) == 0 {
		aliases = []string{name}
	}
	return Tool{Name: name, Category: category, Aliases: aliases}
}

// exact marks a tool whose aliases only match with the given casing. Used for
// names that double as ordinary English words.
func exact(category, name string, aliases ...string) Tool {
	t := tool(category, name, aliases...)
	t.CaseSensitive = true
	return t
}

func defaultTools() []Tool {
	return []Tool{
		tool(CategoryCRM, "Salesforce", "salesforce", "sfdc"),
		tool(CategoryCRM, "HubSpot", "hubspot"),
		tool(CategoryCRM, "Dynamics 365", "dynamics 365", "microsoft dynamics"),
		tool(CategoryCRM, "Pipedrive", "pipedrive"),
		tool(CategoryCRM, "Zoho CRM", "zoho crm", "zoho"),
		tool(CategoryCRM, "Zendesk", "zendesk"),

		exact(CategorySalesEngagement, "Outreach", "Outreach.io", "outreach.io", "Outreach"),
		tool(CategorySalesEngagement, "Salesloft", "salesloft"),
		exact(CategorySalesEngagement, "Apollo", "Apollo.io", "apollo.io", "Apollo"),
		exact(CategorySalesEngagement, "Gong", "Gong.io", "gong.io", "Gong"),
		tool(CategorySalesEngagement, "ZoomInfo", "zoominfo"),
		tool(CategorySalesEngagement, "Sales Navigator", "sales navigator", "linkedin sales navigator"),
		tool(CategorySalesEngagement, "Clari", "clari"),
		tool(CategorySalesEngagement, "Chorus", "chorus.ai"),

		tool(CategoryLanguages, "Python", "python"),
		tool(CategoryLanguages, "JavaScript", "javascript"),
		tool(CategoryLanguages, "TypeScript", "typescript"),
		tool(CategoryLanguages, "Java", "java"),
		exact(CategoryLanguages, "Go", "Go", "Golang", "golang"),
		exact(CategoryLanguages, "Ruby", "Ruby", "ruby"),
		tool(CategoryLanguages, "Rust", "rust"),
		tool(CategoryLanguages, "Scala", "scala"),
		tool(CategoryLanguages, "Kotlin", "kotlin"),
		exact(CategoryLanguages, "Swift", "Swift"),
		tool(CategoryLanguages, "C++", "c++", "cpp"),
		tool(CategoryLanguages, "C#", "c#", "csharp"),
		tool(CategoryLanguages, "SQL", "sql"),
		tool(CategoryLanguages, "PHP", "php"),
		tool(CategoryLanguages, "Elixir", "elixir"),

		tool(CategoryFrameworks, "React", "react", "react.js", "reactjs"),
		tool(CategoryFrameworks, "React Native", "react native"),
		tool(CategoryFrameworks, "Angular", "angular", "angularjs"),
		tool(CategoryFrameworks, "Vue", "vue", "vue.js", "vuejs"),
		tool(CategoryFrameworks, "Next.js", "next.js", "nextjs"),
		tool(CategoryFrameworks, "Node.js", "node.js", "nodejs"),
		tool(CategoryFrameworks, "Django", "django"),
		tool(CategoryFrameworks, "Flask", "flask"),
		exact(CategoryFrameworks, "Spring", "Spring Boot", "Spring"),
		tool(CategoryFrameworks, "Ruby on Rails", "ruby on rails", "rails"),
		tool(CategoryFrameworks, ".NET", ".net", "dotnet"),
		tool(CategoryFrameworks, "GraphQL", "graphql"),
		tool(CategoryFrameworks, "FastAPI", "fastapi"),
		tool(CategoryFrameworks, "Express", "express.js", "expressjs"),

		tool(CategoryCloud, "AWS", "aws", "amazon web services"),
		tool(CategoryCloud, "GCP", "gcp", "google cloud", "google cloud platform"),
		tool(CategoryCloud, "Azure", "azure"),
		tool(CategoryCloud, "Kubernetes", "kubernetes", "k8s"),
		tool(CategoryCloud, "Docker", "docker"),
		tool(CategoryCloud, "Terraform", "terraform"),
		tool(CategoryCloud, "Cloudflare", "cloudflare"),
		tool(CategoryCloud, "Vercel", "vercel"),
		tool(CategoryCloud, "Heroku", "heroku"),

		tool(CategoryDatabases, "PostgreSQL", "postgresql", "postgres"),
		tool(CategoryDatabases, "MySQL", "mysql"),
		tool(CategoryDatabases, "MongoDB", "mongodb", "mongo"),
		tool(CategoryDatabases, "Redis", "redis"),
		tool(CategoryDatabases, "Elasticsearch", "elasticsearch", "elastic search"),
		tool(CategoryDatabases, "Snowflake", "snowflake"),
		tool(CategoryDatabases, "BigQuery", "bigquery"),
		tool(CategoryDatabases, "Redshift", "redshift"),
		tool(CategoryDatabases, "DynamoDB", "dynamodb"),
		tool(CategoryDatabases, "Cassandra", "cassandra"),
		tool(CategoryDatabases, "Kafka", "kafka"),

		tool(CategoryAIML, "PyTorch", "pytorch"),
		tool(CategoryAIML, "TensorFlow", "tensorflow"),
		tool(CategoryAIML, "LangChain", "langchain"),
		tool(CategoryAIML, "OpenAI", "openai", "chatgpt", "gpt-4"),
		tool(CategoryAIML, "Anthropic", "anthropic"),
		tool(CategoryAIML, "Hugging Face", "hugging face", "huggingface"),
		tool(CategoryAIML, "scikit-learn", "scikit-learn", "sklearn"),
		exact(CategoryAIML, "RAG", "RAG", "Retrieval Augmented Generation", "Retrieval-Augmented Generation", "retrieval augmented generation", "retrieval-augmented generation"),
		tool(CategoryAIML, "Vertex AI", "vertex ai"),
		tool(CategoryAIML, "SageMaker", "sagemaker"),

		tool(CategoryAnalytics, "Tableau", "tableau"),
		tool(CategoryAnalytics, "Looker", "looker"),
		tool(CategoryAnalytics, "Power BI", "power bi", "powerbi"),
		tool(CategoryAnalytics, "dbt", "dbt"),
		tool(CategoryAnalytics, "Airflow", "airflow"),
		exact(CategoryAnalytics, "Spark", "Apache Spark", "Spark", "pyspark", "PySpark"),
		tool(CategoryAnalytics, "Fivetran", "fivetran"),
		tool(CategoryAnalytics, "Mixpanel", "mixpanel"),
		tool(CategoryAnalytics, "Amplitude", "amplitude"),
		tool(CategoryAnalytics, "Google Analytics", "google analytics"),
		exact(CategoryAnalytics, "Segment", "Segment", "segment.io", "Segment.io"),
		tool(CategoryAnalytics, "Databricks", "databricks"),
		exact(CategoryAnalytics, "Excel", "Excel", "Microsoft Excel"),

		tool(CategoryDesign, "Figma", "figma"),
		exact(CategoryDesign, "Sketch", "Sketch"),
		tool(CategoryDesign, "Adobe Creative Suite", "adobe creative suite", "adobe creative cloud"),
		tool(CategoryDesign, "Photoshop", "photoshop"),
		exact(CategoryDesign, "Illustrator", "Adobe Illustrator", "Illustrator"),
		tool(CategoryDesign, "InVision", "invision"),
		exact(CategoryDesign, "Framer", "Framer"),

		exact(CategoryCommunication, "Slack", "Slack"),
		tool(CategoryCommunication, "Jira", "jira"),
		tool(CategoryCommunication, "Confluence", "confluence"),
		exact(CategoryCommunication, "Notion", "Notion"),
		tool(CategoryCommunication, "Asana", "asana"),
		exact(CategoryCommunication, "Zoom", "Zoom"),
		tool(CategoryCommunication, "Microsoft Teams", "microsoft teams", "ms teams"),
		tool(CategoryCommunication, "Google Workspace", "google workspace", "g suite", "gsuite"),

		tool(CategoryPayments, "Stripe", "stripe"),
		tool(CategoryPayments, "NetSuite", "netsuite"),
		tool(CategoryPayments, "QuickBooks", "quickbooks"),
		tool(CategoryPayments, "Adyen", "adyen"),
		tool(CategoryPayments, "Braintree", "braintree"),
		tool(CategoryPayments, "PayPal", "paypal"),
		tool(CategoryPayments, "Plaid", "plaid"),
		tool(CategoryPayments, "Bill.com", "bill.com"),
		exact(CategoryPayments, "SAP", "SAP"),

		tool(CategoryHR, "Workday", "workday"),
		exact(CategoryHR, "Greenhouse", "Greenhouse"),
		exact(CategoryHR, "Lever", "Lever"),
		tool(CategoryHR, "BambooHR", "bamboohr"),
		tool(CategoryHR, "Rippling", "rippling"),
		tool(CategoryHR, "Gusto", "gusto"),
		exact(CategoryHR, "ADP", "ADP"),
		exact(CategoryHR, "Lattice", "Lattice"),
		exact(CategoryHR, "Ashby", "Ashby"),
	}
}

func defaultShadows() []string {
	return []string{
		"go-to-market", "Go-to-market", "Go-To-Market", "go to market", "Go to market",
		"go-live", "Go-live", "go live", "Go live", "on the go",
	}
}

// MatchTools returns every tool mentioned in text, in dictionary order.
// Longer aliases claim their span first, so a shorter alias never matches
// inside text already attributed to a longer one.
func (t *Taxonomy) MatchTools(text string) []ToolMatch {
	m := t.matcher
	if m == nil {
		m = newToolMatcher(t.Tools, t.Shadows)
	}
	hits := m.match(text)
	out := make([]ToolMatch, 0, len(hits))
	for _, idx := range hits {
		out = append(out, ToolMatch{Name: t.Tools[idx].Name, Category: t.Tools[idx].Category})
	}
	return out
}

type matchEntry struct {
	needle        string
	tool          int // -1 for shadows
	caseSensitive bool
}

type toolMatcher struct {
	entries []matchEntry
}

func newToolMatcher(tools []Tool, shadows []string) *toolMatcher {
	var entries []matchEntry
	for i, tl := range tools {
		for _, alias := range tl.Aliases {
			needle := alias
			if !tl.CaseSensitive {
				needle = lowerASCII(alias)
			}
			entries = append(entries, matchEntry{needle: needle, tool: i, caseSensitive: tl.CaseSensitive})
		}
	}
	for _, s := range shadows {
		entries = append(entries, matchEntry{needle: s, tool: -1, caseSensitive: true})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].needle) > len(entries[j].needle)
	})
	return &toolMatcher{entries: entries}
}

// match returns the indexes of matched tools in ascending order.
func (m *toolMatcher) match(text string) []int {
	lower := lowerASCII(text)
	claimed := make([]bool, len(text))
	found := make(map[int]bool)

	for _, e := range m.entries {
		hay := lower
		if e.caseSensitive {
			hay = text
		}
		from := 0
		for from < len(hay) {
			i := strings.Index(hay[from:], e.needle)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(e.needle)
			from = start + 1

			if !atBoundary(text, start, end, e.needle) || spanClaimed(claimed, start, end) {
				continue
			}
			for k := start; k < end; k++ {
				claimed[k] = true
			}
			if e.tool >= 0 {
				found[e.tool] = true
			}
		}
	}

	out := make([]int, 0, len(found))
	for idx := range found {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// atBoundary checks word boundaries only on sides where the alias itself
// starts or ends with a word character, so "C++" and ".NET" still match.
func atBoundary(text string, start, end int, needle string) bool {
	if isWordByte(needle[0]) && start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if isWordByte(needle[len(needle)-1]) && end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func spanClaimed(claimed []bool, start, end int) bool {
	for k := start; k < end; k++ {
		if claimed[k] {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// lowerASCII lowercases ASCII letters only, keeping byte offsets stable.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
