package scoring

import "github.com/opensource-legal/caracara/internal/domain"

// factorDescriptions render in score breakdowns.
var factorDescriptions = map[string]string{
	domain.FactorDirectExchange:  "Troca direta de testemunhos entre as partes",
	domain.FactorTriangulation:   "Ciclo de triangulação de testemunhos identificado",
	domain.FactorDualRole:        "Pessoa atuando como reclamante e testemunha",
	domain.FactorBorrowedWitness: "Testemunha com volume atípico de depoimentos",
}

// recommendations is the fixed lookup table keyed by factor type; one
// recommendation is emitted per contributing component, always in the
// factor order.
var recommendations = map[string]string{
	domain.FactorDirectExchange:  "Verificar vínculo entre os participantes da troca e impugnar os depoimentos recíprocos",
	domain.FactorTriangulation:   "Mapear o ciclo completo de testemunhos e requerer a oitiva conjunta dos participantes",
	domain.FactorDualRole:        "Levantar o histórico processual da pessoa em duplo papel antes da audiência",
	domain.FactorBorrowedWitness: "Contraditar a testemunha com base no volume de depoimentos (art. 447 CPC)",
}
