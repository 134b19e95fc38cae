package classify

import "github.com/scrypster/cos/pkg/types"

// actionKeywords is ordered by ActionType declaration order. Some keywords
// appear under more than one action on purpose; the scorer counts them for
// each.
var actionKeywords = map[types.ActionType][]string{
	types.ActionCreate: {
		"create", "make", "build", "design", "develop", "write", "draft", "generate",
		"compose", "craft", "produce", "construct", "form", "establish", "setup",
	},
	types.ActionSchedule: {
		"schedule", "plan", "book", "arrange", "organize", "set", "remind", "calendar",
		"appointment", "meeting", "event", "deadline", "time", "date", "when",
	},
	types.ActionLearn: {
		"study", "learn", "research", "analyze", "investigate", "explore", "understand",
		"exam", "test", "homework", "assignment", "practice", "review", "memorize",
	},
	types.ActionCommunicate: {
		"email", "call", "message", "contact", "reach", "notify", "inform", "update",
		"send", "tell", "discuss", "talk", "chat", "follow", "reply", "respond",
	},
	types.ActionAnalyze: {
		"analyze", "review", "check", "evaluate", "assess", "examine", "inspect",
		"compare", "measure", "calculate", "compute", "process", "debug", "test",
	},
	types.ActionOrganize: {
		"organize", "sort", "categorize", "group", "arrange", "structure", "manage",
		"clean", "tidy", "file", "archive", "backup", "sync", "optimize",
	},
}

// fastPathOrder is the priority in which ClassifyFast probes keyword families.
var fastPathOrder = []types.ActionType{
	types.ActionCommunicate,
	types.ActionSchedule,
	types.ActionLearn,
	types.ActionCreate,
	types.ActionAnalyze,
	types.ActionOrganize,
}

var domainKeywords = map[types.Domain][]string{
	types.DomainChemistry:   {"chemistry", "chemical", "molecule", "atom", "reaction", "formula", "periodic"},
	types.DomainPhysics:     {"physics", "force", "energy", "motion", "quantum", "relativity", "mechanics"},
	types.DomainMathematics: {"math", "mathematics", "algebra", "calculus", "geometry", "statistics", "equation"},
	types.DomainBiology:     {"biology", "cell", "dna", "genetics", "evolution", "organism", "anatomy"},
	types.DomainHistory:     {"history", "historical", "ancient", "medieval", "war", "civilization", "empire"},
	types.DomainLiterature:  {"literature", "book", "novel", "poem", "author", "writing", "story"},

	types.DomainProgramming: {"code", "programming", "software", "javascript", "python", "react", "api"},
	types.DomainMarketing:   {"marketing", "campaign", "brand", "advertising", "promotion", "seo", "social"},
	types.DomainFinance:     {"finance", "money", "investment", "budget", "accounting", "profit", "revenue"},
	types.DomainDesign:      {"design", "ui", "ux", "graphics", "logo", "layout", "visual", "mockup"},
	types.DomainBusiness:    {"business", "company", "startup", "entrepreneur", "strategy", "management"},

	types.DomainFitness:     {"fitness", "workout", "exercise", "gym", "training", "health", "muscle"},
	types.DomainCooking:     {"cooking", "recipe", "food", "kitchen", "ingredients", "meal", "chef"},
	types.DomainTravel:      {"travel", "trip", "vacation", "flight", "hotel", "destination", "tourism"},
	types.DomainMusic:       {"music", "song", "instrument", "band", "concert", "melody", "rhythm"},
	types.DomainSports:      {"sports", "game", "team", "player", "match", "tournament", "competition"},
	types.DomainPhotography: {"photography", "photo", "camera", "picture", "lens", "shot", "image"},
	types.DomainGardening:   {"garden", "plant", "flower", "seed", "soil", "grow", "harvest"},
	types.DomainArt:         {"art", "painting", "drawing", "sketch", "canvas", "brush", "creative"},

	types.DomainAI:            {"ai", "artificial intelligence", "machine learning", "neural", "algorithm"},
	types.DomainBlockchain:    {"blockchain", "crypto", "bitcoin", "ethereum", "smart contract"},
	types.DomainCybersecurity: {"security", "hacking", "encryption", "firewall", "vulnerability"},
	types.DomainDataScience:   {"data", "analytics", "visualization", "statistics", "dataset"},

	types.DomainMedicine:   {"medicine", "doctor", "patient", "treatment", "diagnosis", "health"},
	types.DomainPsychology: {"psychology", "mental", "behavior", "therapy", "cognitive", "emotion"},
	types.DomainNutrition:  {"nutrition", "diet", "vitamin", "protein", "calories", "healthy"},

	types.DomainWriting: {"writing", "author", "blog", "article", "content", "publish", "editor"},
	types.DomainVideo:   {"video", "film", "movie", "editing", "camera", "production", "youtube"},
	types.DomainGaming:  {"game", "gaming", "player", "level", "character", "console", "esports"},
}

// suggestionTemplates is keyed by action then domain. Each action carries a
// general entry used when its domain has none.
var suggestionTemplates = map[types.ActionType]map[types.Domain]string{
	types.ActionCreate: {
		types.DomainGeneral:     "Create new content",
		types.DomainProgramming: "Create new project",
		types.DomainDesign:      "Create design concept",
		types.DomainWriting:     "Create written content",
		types.DomainFitness:     "Create workout plan",
		types.DomainCooking:     "Create recipe",
		types.DomainMusic:       "Create music composition",
	},
	types.ActionSchedule: {
		types.DomainGeneral:  "Schedule new event",
		types.DomainFitness:  "Schedule workout session",
		types.DomainBusiness: "Schedule business meeting",
		types.DomainMedicine: "Schedule appointment",
	},
	types.ActionLearn: {
		types.DomainGeneral:     "Start learning session",
		types.DomainProgramming: "Learn programming concepts",
		types.DomainMusic:       "Learn musical skills",
	},
	types.ActionCommunicate: {
		types.DomainGeneral:  "Send communication",
		types.DomainBusiness: "Contact business partner",
	},
	types.ActionAnalyze: {
		types.DomainGeneral:     "Analyze information",
		types.DomainDataScience: "Analyze data patterns",
		types.DomainBusiness:    "Analyze business metrics",
	},
	types.ActionOrganize: {
		types.DomainGeneral: "Organize content",
	},
}

// Icons are symbolic tags; the renderer maps them to glyphs.
const IconDefault = "brain"

var actionIcons = map[types.ActionType]string{
	types.ActionCreate:      "tools",
	types.ActionSchedule:    "calendar",
	types.ActionLearn:       "books",
	types.ActionCommunicate: "speech",
	types.ActionAnalyze:     "search",
	types.ActionOrganize:    "clipboard",
}

var domainIcons = map[types.Domain]string{
	types.DomainProgramming: "laptop",
	types.DomainDesign:      "palette",
	types.DomainFitness:     "muscle",
	types.DomainCooking:     "chef",
	types.DomainMusic:       "music",
	types.DomainSports:      "soccer",
	types.DomainTravel:      "airplane",
	types.DomainPhotography: "camera",
	types.DomainMedicine:    "medical",
	types.DomainFinance:     "money",
}
