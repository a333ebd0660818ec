package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "checklist.started", "📋 Day %d checklist started! Send a photo of: %s")
	message.SetString(lang, "checklist.already_started", "⚠️ The day %d checklist is already underway. Next item: %s")
	message.SetString(lang, "checklist.already_completed", "✅ The day %d checklist is already complete.")
	message.SetString(lang, "checklist.item_accepted", "✅ %s recorded! Now send a photo of: %s")
	message.SetString(lang, "checklist.wrong_item", "⚠️ Out of order. The next expected item is: %s")
	message.SetString(lang, "checklist.completed", "🎉 Day %d checklist complete! Every item was verified.")
	message.SetString(lang, "checklist.no_active", "⚠️ No active checklist. Send \"start day 1\" or \"start day 2\" to begin.")
	message.SetString(lang, "checklist.items_marked", "✅ Items verified: %s")
	message.SetString(lang, "checklist.items_unknown", "⚠️ I did not recognize these items: %s")
	message.SetString(lang, "checklist.missing", "📋 Day %d items still missing:\n%s")
	message.SetString(lang, "checklist.all_clear", "✅ Nothing missing for day %d. All verified!")
	message.SetString(lang, "checklist.restarted", "🔄 Day %d checklist restarted. Send a photo of: %s")
	message.SetString(lang, "checklist.unrecognized", "🤔 I did not understand. Send a photo of the next item or ask \"what is missing?\".")
	message.SetString(lang, "checklist.try_again", "⚠️ Something went wrong while recording. Please try again shortly.")
}
