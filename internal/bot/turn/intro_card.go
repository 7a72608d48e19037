package turn

import "github.com/welcomebot-core/server/internal/bot/model"

// introCard is the fixed informational card sent for "intro" and "help".
func introCard() model.HeroCard {
	return model.HeroCard{
		Title: "Welcome to Bot Framework!",
		Text: "Welcome to Welcome Users bot sample! This Introduction card " +
			"is a great way to introduce your Bot to the user and suggest " +
			"some things to get them started. We use this opportunity to " +
			"recommend a few next steps for learning more creating and deploying bots.",
		Images: []model.CardImage{
			{URL: "https://aka.ms/bf-welcome-card-image"},
		},
		Buttons: []model.CardAction{
			openURLAction("Get an overview", "https://docs.microsoft.com/en-us/azure/bot-service/?view=azure-bot-service-4.0"),
			openURLAction("Ask a question", "https://stackoverflow.com/questions/tagged/botframework"),
			openURLAction("Learn how to deploy", "https://docs.microsoft.com/en-us/azure/bot-service/bot-builder-howto-deploy-azure?view=azure-bot-service-4.0"),
		},
	}
}

func openURLAction(title, url string) model.CardAction {
	return model.CardAction{
		Type:        model.ActionOpenURL,
		Title:       title,
		Text:        title,
		DisplayText: title,
		Value:       url,
	}
}
