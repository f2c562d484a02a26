package triage

// Insight sentence templates, one per factor, emitted in the fixed
// factor order. The disclaimer terminates every narrative.
const (
	insightTriangulation      = "Identificado ciclo de triangulação de testemunhos envolvendo as partes do processo."
	insightDirectExchange     = "Detectada troca direta de testemunhos: as partes testemunham reciprocamente uma para a outra."
	insightBorrowedWitness    = "Testemunha com volume atípico de depoimentos, compatível com o padrão de prova emprestada."
	insightDualRole           = "Pessoa identificada atuando como reclamante em alguns processos e como testemunha em outros."
	insightOpposingSide       = "Registro de depoimento pelo lado oposto ao habitual, sinal forte de coordenação."
	insightRecurrentAttorneys = "Advogados recorrentes em parcela expressiva dos processos implicados."
	insightGeoConcentration   = "Concentração geográfica elevada: os processos se acumulam em uma única comarca ou vara."
	insightTemporal           = "Concentração temporal suspeita: os depoimentos se acumulam em poucos meses consecutivos."

	insightDisclaimer = "A validação contra os autos do processo é obrigatória antes de qualquer decisão."
)
