package prompt

import (
	"fmt"
	"strings"

	"github.com/Nairod97425/Rag/internal/models"
)

// RefusalPhrase is the fixed sentence the model is instructed to emit for
// questions outside the diabetes domain.
const RefusalPhrase = "Je suis un assistant spécialisé uniquement sur le diabète. Je ne peux pas répondre à d'autres sujets."

// NotFoundPhrase is the fixed wording for questions the retrieved context
// cannot answer, so the model states a gap instead of inventing one.
const NotFoundPhrase = "Je ne trouve pas cette information"

// template encodes the three binding rules the model must follow:
// refuse off-domain questions, answer only from the supplied context, and
// always respond in French. These are instructions to the model, not code
// enforcement; the assembler only guarantees faithful substitution.
const template = `Tu es un assistant médical spécialisé EXCLUSIVEMENT sur le diabète.
Ta mission est d'aider les utilisateurs uniquement sur ce sujet à partir des documents fournis.

RÈGLES STRICTES :
1. HORS SUJET : Si la question ne concerne pas le diabète, la glycémie, l'insuline ou la santé liée, refuse poliment de répondre.
   Phrase type : "%s"

2. SOURCES : Utilise UNIQUEMENT le contexte ci-dessous. N'invente rien. Si l'information n'est pas dans le contexte, dis "%s".

3. LANGUE : Réponds toujours en français.

Contexte :
%s

Question de l'utilisateur : %s

Réponse :`

// Assemble renders the retrieved units and the verbatim question into the
// instructional template. Units are kept in retrieval order, untruncated;
// the output is deterministic for identical inputs.
func Assemble(question string, units []models.ScoredUnit) string {
	return fmt.Sprintf(template, RefusalPhrase, NotFoundPhrase, FormatContext(units), question)
}

// FormatContext concatenates the retrieved chunk texts, each prefixed by
// a source marker carrying the parent document's title, separated by
// blank lines.
func FormatContext(units []models.ScoredUnit) string {
	blocks := make([]string, 0, len(units))
	for _, u := range units {
		blocks = append(blocks, fmt.Sprintf("[Source: %s]\n%s", u.Title, u.Text))
	}
	return strings.Join(blocks, "\n\n")
}
