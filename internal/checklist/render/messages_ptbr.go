package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.MustParse("pt-BR")

	message.SetString(lang, "checklist.started", "📋 Checklist do dia %d iniciado! Envie a foto de: %s")
	message.SetString(lang, "checklist.already_started", "⚠️ O checklist do dia %d já está em andamento. Próximo item: %s")
	message.SetString(lang, "checklist.already_completed", "✅ O checklist do dia %d já foi concluído.")
	message.SetString(lang, "checklist.item_accepted", "✅ %s registrado! Agora envie a foto de: %s")
	message.SetString(lang, "checklist.wrong_item", "⚠️ Item fora de ordem. O próximo item esperado é: %s")
	message.SetString(lang, "checklist.completed", "🎉 Checklist do dia %d concluído! Todos os itens foram conferidos.")
	message.SetString(lang, "checklist.no_active", "⚠️ Nenhum checklist ativo. Envie \"iniciar dia 1\" ou \"iniciar dia 2\" para começar.")
	message.SetString(lang, "checklist.items_marked", "✅ Itens conferidos: %s")
	message.SetString(lang, "checklist.items_unknown", "⚠️ Não reconheci estes itens: %s")
	message.SetString(lang, "checklist.missing", "📋 Itens faltantes do dia %d:\n%s")
	message.SetString(lang, "checklist.all_clear", "✅ Nenhum item faltante no dia %d. Tudo conferido!")
	message.SetString(lang, "checklist.restarted", "🔄 Checklist do dia %d reiniciado. Envie a foto de: %s")
	message.SetString(lang, "checklist.unrecognized", "🤔 Não entendi. Envie a foto do próximo item ou pergunte \"o que falta?\".")
	message.SetString(lang, "checklist.try_again", "⚠️ Tivemos um problema ao registrar. Tente novamente em instantes.")
}
