package classification

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryKeywords is one row of a KeywordTable.
type CategoryKeywords struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// KeywordTable maps category names to lowercase keywords and phrases.
// Rows keep their declaration order, which breaks ties when ranking.
//
// The table is keyed by display name: a renamed or custom category with no
// matching row always scores zero.
type KeywordTable struct {
	index map[string]int
	rows  []CategoryKeywords
}

// NewKeywordTable builds an immutable table from rows. Keywords are
// lowercased and trimmed; duplicate names are rejected.
func NewKeywordTable(rows []CategoryKeywords) (*KeywordTable, error) {
	t := &KeywordTable{
		index: make(map[string]int, len(rows)),
		rows:  make([]CategoryKeywords, 0, len(rows)),
	}

	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			return nil, fmt.Errorf("keyword table row %d: category name is required", len(t.rows))
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("keyword table: duplicate category %q", name)
		}

		keywords := make([]string, 0, len(row.Keywords))
		for _, kw := range row.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}

		t.index[name] = len(t.rows)
		t.rows = append(t.rows, CategoryKeywords{Name: name, Keywords: keywords})
	}

	return t, nil
}

// LoadKeywordTable reads a YAML keyword table of the form
//
//	categories:
//	  - name: Food
//	    keywords: [lunch, dinner]
func LoadKeywordTable(path string) (*KeywordTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword table: %w", err)
	}

	var doc struct {
		Categories []CategoryKeywords `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse keyword table %s: %w", path, err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("keyword table %s has no categories", path)
	}

	return NewKeywordTable(doc.Categories)
}

// Names returns the category names in table order.
func (t *KeywordTable) Names() []string {
	names := make([]string, len(t.rows))
	for i, row := range t.rows {
		names[i] = row.Name
	}
	return names
}

// Keywords returns the keywords for name and whether the name is present.
func (t *KeywordTable) Keywords(name string) ([]string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.rows[i].Keywords, true
}

// Len returns the number of categories in the table.
func (t *KeywordTable) Len() int {
	return len(t.rows)
}

// DefaultKeywordTable returns the built-in table.
func DefaultKeywordTable() *KeywordTable {
	t, err := NewKeywordTable(defaultKeywords)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in keyword table: %v", err))
	}
	return t
}

var defaultKeywords = []CategoryKeywords{
	{
		Name: "Food",
		// No bare "food" or "foodpanda": "food" would match any note that
		// mentions the word, including "random text without food keywords".
		Keywords: []string{
			"meal", "lunch", "dinner", "breakfast", "snack", "restaurant", "cafe", "coffee",
			"pizza", "burger", "sandwich", "vegetables", "fruits", "milk", "bread",
			"rice", "dal", "curry", "biryani", "dosa", "idli", "samosa", "tea", "juice",
			"swiggy", "zomato", "uber eats", "dominos", "kfc", "mcdonalds",
			"hotel", "dhaba", "canteen", "mess", "tiffin", "paratha", "roti", "chapati",
		},
	},
	{
		Name: "Grocery",
		Keywords: []string{
			"grocery", "groceries", "supermarket", "market", "bazaar", "store", "shop",
			"reliance fresh", "big bazaar", "more", "dmart", "spencer", "nature basket",
			// proteins
			"chicken", "mutton", "lamb", "beef", "pork", "fish", "seafood", "prawns", "crab",
			"egg", "eggs", "paneer", "tofu", "protein",
			// fruits
			"apple", "banana", "orange", "mango", "grapes", "strawberry", "watermelon", "pineapple",
			"papaya", "guava", "kiwi", "pomegranate", "lemon", "lime", "coconut", "dates",
			// vegetables
			"potato", "onion", "tomato", "carrot", "cabbage", "spinach", "broccoli", "cauliflower",
			"peas", "beans", "corn", "cucumber", "pepper", "chilli", "ginger", "garlic",
			// staples
			"wheat", "flour", "oats", "quinoa", "barley", "pulses", "lentils", "chickpeas",
			// dairy
			"yogurt", "curd", "cheese", "butter", "cream", "ghee", "almond milk", "soy milk",
			// household
			"detergent", "soap", "shampoo", "toothpaste", "tissue", "toilet paper", "oil", "salt", "sugar", "spices",
		},
	},
	{
		Name: "Transport",
		Keywords: []string{
			"transport", "uber", "ola", "taxi", "cab", "bus", "train", "metro", "auto",
			"rickshaw", "fuel", "petrol", "diesel", "gas", "parking", "toll", "flight",
			"airport", "railway", "ticket", "booking", "travel", "commute", "vehicle",
			"bike", "car", "scooter", "motorcycle", "rapido", "bounce", "yulu",
		},
	},
	{
		Name: "Entertainment",
		Keywords: []string{
			"movie", "cinema", "theater", "concert", "show", "game", "gaming", "netflix",
			"prime", "hotstar", "spotify", "youtube", "subscription", "entertainment",
			"fun", "party", "club", "bar", "pub", "bowling", "sports", "gym", "fitness",
			"book", "magazine", "newspaper", "music", "album", "ticket", "event",
		},
	},
	{
		Name: "Shopping",
		Keywords: []string{
			"shopping", "clothes", "shirt", "pants", "dress", "shoes", "bag", "accessories",
			"amazon", "flipkart", "myntra", "ajio", "nykaa", "electronics", "mobile",
			"laptop", "computer", "headphones", "charger", "cable", "gadget", "appliance",
			"furniture", "home", "decoration", "gift", "present", "online", "store", "mall",
		},
	},
	{
		Name: "Healthcare",
		Keywords: []string{
			"doctor", "hospital", "clinic", "medicine", "pharmacy", "medical", "health",
			"checkup", "consultation", "treatment", "surgery", "dental", "dentist",
			"eye", "optician", "glasses", "test", "lab", "blood", "xray", "scan",
			"physiotherapy", "therapy", "massage", "wellness", "vitamins", "supplements",
		},
	},
	{
		Name: "Utilities",
		Keywords: []string{
			"electricity", "water", "gas", "internet", "wifi", "phone", "mobile", "postpaid",
			"prepaid", "recharge", "bill", "utility", "maintenance", "repair", "service",
			"cleaning", "laundry", "rent", "emi", "loan", "insurance", "bank", "charges",
			"fee", "subscription", "premium", "payment", "transfer",
		},
	},
	{
		Name: "Education",
		Keywords: []string{
			"education", "school", "college", "university", "course", "class", "tuition",
			"coaching", "training", "workshop", "seminar", "conference", "book", "notebook",
			"pen", "pencil", "stationery", "fees", "admission", "exam", "test", "study",
			"online course", "udemy", "coursera", "skill", "learning", "certificate",
		},
	},
}
