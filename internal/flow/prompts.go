package flow

// Conversation scripts, verbatim from the Disk Dengue service.

const (
	MsgGreeting = "Olá, sou o DISK DENGUE e estarei iniciando seu atendimento."
	MsgMenu     = "🚨 Por favor, escolha o número da sua reclamação:\n\n" +
		"1 - IMÓVEL C/ ASPECTO DE ABANDONO\n" +
		"2 - TERRENO BALDIO\n" +
		"3 - LIXO ACUMULADO\n" +
		"4 - IMÓVEL C/ ACÚMULO DE DEPÓSITOS"

	MsgAskDescription = "Por favor, descreva em poucas palavras o que está acontecendo:"

	MsgAskPhoto      = "Obrigado pela descrição. Se possível, envie uma foto do local."
	MsgPhotoSkipHint = "Caso não tenha foto, responda com qualquer mensagem para continuar."

	MsgThanksDescription = "Obrigado pela descrição. Vamos precisar do endereço completo."
	MsgAddressIntro      = "Vamos precisar do endereço completo."
	MsgAskAddress        = "Por favor, digite o nome da rua, avenida ou travessa com o número:"

	MsgAskLandmark     = "Agora, nos informe um ponto de referência próximo:"
	MsgLandmarkExample = "(Ex: \"próximo ao mercado X\", \"em frente à praça\")"

	MsgAskNeighborhood = "Para finalizar, qual o bairro?"

	MsgAskPhone     = "Caso nossa equipe precise entrar em contato, qual seu telefone?"
	MsgPhoneExample = "(Digite no formato DDD + número, ex: 67987654321)"
	MsgPhoneInvalid = "Formato inválido. Por favor, digite apenas números com DDD (ex: 21987654321)"

	MsgThanksInfo     = "Obrigado pelas informações!"
	MsgProtocolPrefix = "Seu número de protocolo é: "
	MsgForwardTeam    = "Sua reclamação será encaminhada para nossa equipe."
	MsgAskRating      = "Por favor, avalie nosso atendimento de 1 a 5:"
	MsgRatingScale    = "1 - Péssimo | 2 - Ruim | 3 - Regular | 4 - Bom | 5 - Ótimo"

	MsgSubmitOK      = "✅ Obrigado pelo seu contato! Seu protocolo foi registrado com sucesso."
	MsgSubmitPartial = "⚠️ Obrigado pelo seu contato! Sua reclamação foi recebida, mas houve um problema ao registrar o protocolo."

	MsgFallback = "Desculpe, não entendi. Por favor, responda com uma das opções válidas."
	MsgApology  = "Desculpe, ocorreu um erro. Por favor, inicie novamente o atendimento."
)

// complaintTypes maps menu option codes to complaint labels.
var complaintTypes = map[string]string{
	"1": "IMÓVEL C/ ASPECTO DE ABANDONO",
	"2": "TERRENO BALDIO",
	"3": "LIXO ACUMULADO",
	"4": "IMÓVEL C/ ACÚMULO DE DEPÓSITOS",
}

// Photo field sentinels. These are values recorded in the form, distinct
// from a photo reference (a path or URL).
const (
	PhotoNotProvided = "NÃO ENVIADA"
	PhotoFailed      = "FALHA NO ENVIO"
	PhotoDeferred    = "FOTO ENVIADA"
)
