package telegram

const startMessage = "Yo! I'm the AI buddy of this chat 🍻\n\n" +
	"- I sometimes jump into the conversation\n" +
	"- You can ask me stuff with /ask\n" +
	"- Search chat with /search\n\n" +
	"I'm a bot, not a real person – don't trust me with your bank account 😉"

const helpMessage = "Commands:\n" +
	"/ask <question> – ask me anything, I'll try to answer.\n" +
	"/search <text> – search recent messages by text.\n" +
	"/summary or /daily – get a summary of the last 24 hours.\n" +
	"/help – this message.\n\n" +
	"You can also just talk in the chat – I may reply randomly 🤖"

const (
	askUsage            = "Use: /ask <question>"
	searchUsage         = "Use: /search <text>"
	searchNoResults     = "Nothing found in recent messages 🤷‍♂️"
	searchResultsHeader = "Found these in recent messages:"
)

const askSystemPrompt = "You are an AI member of a friendly Telegram group chat. " +
	"Answer concisely, in a casual tone. If you don't know " +
	"something for sure, say you're not certain rather than inventing details."

// The only two strings a user ever sees when generation fails.
const (
	rateLimitMessage = "Sorry, I've hit my API quota limit. Please check your OpenAI billing or try again later. 💳"
	aiErrorMessage   = "I tried to think of something smart to say, but my brain glitched 🤖"
)
