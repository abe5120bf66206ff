package handler

import (
	"fmt"
	"strconv"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg_escrow/internal/domain/service/escrow"
	"tg_escrow/internal/domain/value"
)

const startMessage = `🤝 <b>Эскроу-маркет</b>

/sell &lt;цена&gt; &lt;тип&gt; &lt;название&gt; — выставить лот
/deals — открытые лоты
/deal &lt;id&gt; — карточка лота
/buy &lt;id&gt; — купить (средства уходят в эскроу)
/sent &lt;id&gt; — продавец: передал товар
/confirm &lt;id&gt; — покупатель: получил товар
/problem &lt;id&gt; — покупатель: открыть спор
/balance — мой баланс`

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, startMessage)
}

// OnSell: /sell <цена> <тип> <название...>
func (h *Handler) OnSell(ctx *th.Context, msg telego.Message) error {
	parts := strings.Fields(msg.Text)

	const minParts = 4
	if len(parts) < minParts {
		return h.sendHTML(ctx, msg.Chat.ID, "Формат: /sell &lt;цена&gt; &lt;тип&gt; &lt;название&gt;")
	}

	price, err := value.ParseAmount(parts[1])
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, "Не понял цену: "+parts[1])
	}

	seller := partyID(msg.From)

	id, err := h.svc.CreateDeal(ctx, seller, escrow.CreateDealInput{
		Type:  parts[2],
		Title: strings.Join(parts[3:], " "),
		Price: price,
	})
	if err != nil {
		return h.sendError(ctx, msg.Chat.ID, err)
	}

	return h.sendHTML(ctx, msg.Chat.ID,
		fmt.Sprintf("🆕 Лот <b>%s</b> выставлен за %s ⭐", id, price))
}

func (h *Handler) OnDeals(ctx *th.Context, msg telego.Message) error {
	open := h.svc.OpenDeals(ctx)
	if len(open) == 0 {
		return h.sendHTML(ctx, msg.Chat.ID, "Открытых лотов нет")
	}

	var b strings.Builder

	b.WriteString("🛒 <b>Открытые лоты</b>\n")

	for _, d := range open {
		fmt.Fprintf(&b, "\n%s — %s (%s ⭐)", d.ID, d.Title, d.Price)
	}

	return h.sendHTML(ctx, msg.Chat.ID, b.String())
}

func (h *Handler) OnDeal(ctx *th.Context, msg telego.Message) error {
	id, ok := h.dealIDArg(ctx, msg)
	if !ok {
		return nil
	}

	deal, err := h.svc.Deal(ctx, id)
	if err != nil {
		return h.sendError(ctx, msg.Chat.ID, err)
	}

	text := fmt.Sprintf(`🎁 <b>%s</b> %s

📦 Тип: %s
💰 Цена: %s ⭐
📊 Статус: %s
🔒 В эскроу: %s ⭐`,
		deal.ID, deal.Title, deal.Type, deal.Price, deal.Status, deal.Locked)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func (h *Handler) OnBuy(ctx *th.Context, msg telego.Message) error {
	id, ok := h.dealIDArg(ctx, msg)
	if !ok {
		return nil
	}

	if err := h.svc.Buy(ctx, id, partyID(msg.From)); err != nil {
		return h.sendError(ctx, msg.Chat.ID, err)
	}

	return h.sendHTML(ctx, msg.Chat.ID,
		fmt.Sprintf("🔒 Лот %s куплен, средства в эскроу", id))
}

func (h *Handler) OnSent(ctx *th.Context, msg telego.Message) error {
	id, ok := h.dealIDArg(ctx, msg)
	if !ok {
		return nil
	}

	if err := h.svc.MarkSent(ctx, id, partyID(msg.From)); err != nil {
		return h.sendError(ctx, msg.Chat.ID, err)
	}

	return h.sendHTML(ctx, msg.Chat.ID,
		fmt.Sprintf("📦 Лот %s передан поддержке", id))
}

func (h *Handler) OnConfirm(ctx *th.Context, msg telego.Message) error {
	id, ok := h.dealIDArg(ctx, msg)
	if !ok {
		return nil
	}

	amount, err := h.svc.ConfirmReceived(ctx, id, partyID(msg.From))
	if err != nil {
		return h.sendError(ctx, msg.Chat.ID, err)
	}

	return h.sendHTML(ctx, msg.Chat.ID,
		fmt.Sprintf("✅ Сделка %s закрыта, продавцу зачислено %s ⭐", id, amount))
}

func (h *Handler) OnProblem(ctx *th.Context, msg telego.Message) error {
	id, ok := h.dealIDArg(ctx, msg)
	if !ok {
		return nil
	}

	if err := h.svc.ReportProblem(ctx, id, partyID(msg.From)); err != nil {
		return h.sendError(ctx, msg.Chat.ID, err)
	}

	return h.sendHTML(ctx, msg.Chat.ID,
		fmt.Sprintf("⚠️ По сделке %s открыт спор, средства заморожены", id))
}

func (h *Handler) OnBalance(ctx *th.Context, msg telego.Message) error {
	balance := h.svc.BalanceOf(ctx, partyID(msg.From))

	return h.sendHTML(ctx, msg.Chat.ID,
		fmt.Sprintf("💰 Баланс: <b>%s</b> ⭐", balance))
}

// OnCredit: /credit <party> <сумма>. Сервис ещё раз проверит оператора.
func (h *Handler) OnCredit(ctx *th.Context, msg telego.Message) error {
	parts := strings.Fields(msg.Text)

	const wantParts = 3
	if len(parts) != wantParts {
		return h.sendHTML(ctx, msg.Chat.ID, "Формат: /credit &lt;party&gt; &lt;сумма&gt;")
	}

	amount, err := value.ParseAmount(parts[2])
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, "Не понял сумму: "+parts[2])
	}

	err = h.svc.AdminCredit(ctx, partyID(msg.From), value.PartyID(parts[1]), amount)
	if err != nil {
		return h.sendError(ctx, msg.Chat.ID, err)
	}

	return h.sendHTML(ctx, msg.Chat.ID,
		fmt.Sprintf("💸 %s зачислено %s ⭐", parts[1], amount))
}

// dealIDArg достаёт id сделки из единственного аргумента команды.
func (h *Handler) dealIDArg(ctx *th.Context, msg telego.Message) (value.DealID, bool) {
	parts := strings.Fields(msg.Text)

	const wantParts = 2
	if len(parts) != wantParts {
		_ = h.sendHTML(ctx, msg.Chat.ID, "Укажите id сделки, например: "+parts[0]+" #A7342")
		return "", false
	}

	raw := parts[1]
	if !strings.HasPrefix(raw, "#") {
		raw = "#" + raw
	}

	id, err := value.ParseDealID(raw)
	if err != nil {
		_ = h.sendHTML(ctx, msg.Chat.ID, "Не понял id сделки: "+parts[1])
		return "", false
	}

	return id, true
}

func (h *Handler) sendError(ctx *th.Context, chatID int64, err error) error {
	text := failure.Description(err)
	if text == "" {
		text = "Что-то пошло не так, попробуйте позже"
	}

	return h.sendHTML(ctx, chatID, "❌ "+text)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})

	return err
}

// partyID: участник торгов — telegram-аккаунт.
func partyID(from *telego.User) value.PartyID {
	if from == nil {
		return ""
	}

	return value.PartyID(strconv.FormatInt(from.ID, 10))
}
