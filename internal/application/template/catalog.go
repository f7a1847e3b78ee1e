package template

import "github.com/by22shh/buh-ai-assistant/internal/domain"

// defaultCatalog is loaded into an empty template store on startup.
var defaultCatalog = []domain.Template{
	{
		Code:             "payment_order",
		NameRu:           "Платёжное поручение (входящее/исходящее)",
		ShortDescription: "Нужно для оформления безналичного перевода между организациями или ИП: фиксирует, кто, кому и за что перечисляет деньги.",
		Category:         "payments_and_settlements",
		Tags:             []string{"bank", "payment"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "invoice",
		NameRu:           "Счёт на оплату",
		ShortDescription: "Передаёт покупателю реквизиты и состав заказа, чтобы он мог корректно оплатить товары или услуги в срок.",
		Category:         "payments_and_settlements",
		Tags:             []string{"payment", "delivery", "services_works"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "upd",
		NameRu:           "Универсальный передаточный документ (УПД)",
		ShortDescription: "Подтверждает передачу товаров/работ/услуг и содержит данные для бухгалтерии и налогового учёта в одном документе.",
		Category:         "primary_documents",
		Tags:             []string{"delivery", "services_works", "contractor", "customer"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "torg12",
		NameRu:           "Товарная накладная (ТОРГ-12)",
		ShortDescription: "Фиксирует отгрузку и приёмку товаров: что, в каком количестве и на какую сумму передано покупателю.",
		Category:         "primary_documents",
		Tags:             []string{"delivery", "customer"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "vat_invoice",
		NameRu:           "Счёт-фактура (в том числе электронный)",
		ShortDescription: "Основание для учёта НДС: показывает стоимость, ставки и суммы налога по поставке.",
		Category:         "payments_and_settlements",
		Tags:             []string{"payment", "taxes_reporting"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "act_services",
		NameRu:           "Акт выполненных работ / оказанных услуг",
		ShortDescription: "Подтверждает факт и объём оказанных услуг или выполненных работ, служит базой для расчётов.",
		Category:         "primary_documents",
		Tags:             []string{"services_works", "contractor", "customer"},
		Version:          "v1.0",
		HasBodyChat:      true,
		IsEnabled:        true,
	},
	{
		Code:             "order_t1",
		NameRu:           "Приказ о приёме/увольнении (Т-1)",
		ShortDescription: "Оформляет кадровое решение компании: назначение на должность или прекращение трудовых отношений.",
		Category:         "hr_and_personnel",
		Tags:             []string{"hr", "payroll"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "employment_contract",
		NameRu:           "Трудовой договор с сотрудником",
		ShortDescription: "Фиксирует условия работы: обязанности, режим, оплату, гарантии и ответственность сторон.",
		Category:         "hr_and_personnel",
		Tags:             []string{"contract", "hr", "payroll"},
		Version:          "v1.0",
		HasBodyChat:      true,
		IsEnabled:        true,
	},
	{
		Code:             "timesheet_t13",
		NameRu:           "Табель учёта рабочего времени (Т-13)",
		ShortDescription: "Учитывает явки, неявки и часы сотрудников за период — основа для расчёта зарплаты и отчётности.",
		Category:         "hr_and_personnel",
		Tags:             []string{"hr", "payroll"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "payroll_slip",
		NameRu:           "Расчётный листок по заработной плате",
		ShortDescription: "Показывает сотруднику из чего сложилась зарплата: начисления, удержания, налоги и итог к выплате.",
		Category:         "hr_and_personnel",
		Tags:             []string{"payroll", "hr"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "application_leave_advance_trip",
		NameRu:           "Заявление на отпуск / аванс / командировку",
		ShortDescription: "Стандартная форма обращения сотрудника для оформления отпуска, выдачи аванса или служебной поездки.",
		Category:         "hr_and_personnel",
		Tags:             []string{"hr", "leave_trip"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "letter_tax_bank",
		NameRu:           "Письмо в налоговую / банк (типовое)",
		ShortDescription: "Деловое обращение по стандартным вопросам: запросы, пояснения, уведомления с ссылками на основания.",
		Category:         "taxes_and_reporting",
		Tags:             []string{"business_letter", "taxes_reporting", "bank"},
		Version:          "v1.0",
		HasBodyChat:      true,
		IsEnabled:        true,
	},
	{
		Code:             "accounting_services_contract",
		NameRu:           "Договор оказания бухгалтерских услуг / аутсорсинга",
		ShortDescription: "Закрепляет условия предоставления бухуслуг: объём работ, сроки, стоимость и ответственность сторон.",
		Category:         "contracts_and_legal",
		Tags:             []string{"contract", "services_works", "contractor", "customer", "confidentiality"},
		Version:          "v1.0",
		HasBodyChat:      true,
		IsEnabled:        true,
	},
	{
		Code:             "outsourcing_services_contract",
		NameRu:           "Договор оказания услуг по аутсорсингу",
		ShortDescription: "Определяет, какие услуги и в какие сроки оказывает исполнитель, а также требования к результату и расчётам.",
		Category:         "contracts_and_legal",
		Tags:             []string{"contract", "services_works", "contractor", "customer"},
		Version:          "v1.0",
		HasBodyChat:      true,
		IsEnabled:        true,
	},
	{
		Code:             "contract_with_sole_proprietor",
		NameRu:           "Договор с ИП или самозанятым",
		ShortDescription: "Формализует сотрудничество с исполнителем-физлицом: предмет работ, сроки, порядок оплаты и права на результат.",
		Category:         "contracts_and_legal",
		Tags:             []string{"contract", "sole_proprietor", "services_works"},
		Version:          "v1.0",
		HasBodyChat:      true,
		IsEnabled:        true,
	},
	{
		Code:             "power_of_attorney_accountant_manager",
		NameRu:           "Доверенность на бухгалтера или управляющего",
		ShortDescription: "Передаёт представителю право действовать от имени компании в конкретных операциях (например, по счёту или в банке).",
		Category:         "primary_documents",
		Tags:             []string{"bank", "hr"},
		Version:          "v1.0",
		HasBodyChat:      true,
		IsEnabled:        true,
	},
	{
		Code:             "llc_charter",
		NameRu:           "Устав ООО / изменения в устав",
		ShortDescription: "Определяет правила работы компании: цели, органы управления, доли участников и порядок принятия решений.",
		Category:         "contracts_and_legal",
		Tags:             []string{"charter_corporate", "contract"},
		Version:          "v1.0",
		HasBodyChat:      true,
		IsEnabled:        true,
	},
	{
		Code:             "nda",
		NameRu:           "Типовой NDA с сотрудниками и контрагентами",
		ShortDescription: "Защищает конфиденциальную информацию: что считается тайной, как её использовать и какая ответственность за разглашение.",
		Category:         "contracts_and_legal",
		Tags:             []string{"contract", "confidentiality"},
		Version:          "v1.0",
		HasBodyChat:      true,
		IsEnabled:        true,
	},
	{
		Code:             "pko",
		NameRu:           "ПКО (приходный кассовый ордер)",
		ShortDescription: "Оформляет поступление наличных в кассу и фиксирует основание, сумму и дату внесения.",
		Category:         "cash_operations",
		Tags:             []string{"cash", "payment"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "rko",
		NameRu:           "РКО (расходный кассовый ордер)",
		ShortDescription: "Оформляет выдачу наличных из кассы и указывает кому, сколько и по какому основанию выданы средства.",
		Category:         "cash_operations",
		Tags:             []string{"cash", "payment"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "kudir",
		NameRu:           "КУДиР",
		ShortDescription: "Сводит доходы и расходы предпринимателя/организации на упрощённой системе — основа для налогового учёта.",
		Category:         "taxes_and_reporting",
		Tags:             []string{"taxes_reporting"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "usn_declaration",
		NameRu:           "Декларация по УСН",
		ShortDescription: "Отражает налоговую базу и расчёт налога при упрощённой системе налогообложения за отчётный период.",
		Category:         "taxes_and_reporting",
		Tags:             []string{"taxes_reporting"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "ndfl3_declaration",
		NameRu:           "Декларация 3-НДФЛ",
		ShortDescription: "Нужна физлицам для декларирования доходов и заявлений на вычеты, а также расчёта налога к возврату или доплате.",
		Category:         "taxes_and_reporting",
		Tags:             []string{"taxes_reporting"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "ndfl6_declaration",
		NameRu:           "Декларация 6-НДФЛ",
		ShortDescription: "Отчётность налогового агента по начисленному и удержанному НДФЛ и срокам перечислений.",
		Category:         "taxes_and_reporting",
		Tags:             []string{"taxes_reporting"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
	{
		Code:             "rsv_calculation",
		NameRu:           "Расчёт по страховым взносам (РСВ)",
		ShortDescription: "Показывает начисленные и уплаченные страховые взносы за периоды, включая льготы и базы для расчёта.",
		Category:         "taxes_and_reporting",
		Tags:             []string{"taxes_reporting"},
		Version:          "v1.0",
		HasBodyChat:      false,
		IsEnabled:        true,
	},
}
