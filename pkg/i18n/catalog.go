package i18n

type entry struct {
	key string
	fr  string
	cs  string
}

// Literal percent signs are doubled: keys and translations are format strings.
var entries = []entry{
	// address blocks
	{"Issuer", "Émetteur", "Dodavatel"},
	{"Recipient", "Destinataire", "Odběratel"},
	{"Vat in: %s", "TVA intracom. : %s", "DIČ: %s"},
	{"IR: %s", "IR : %s", "IČ: %s"},

	// header
	{"Invoice", "Facture", "Faktura"},
	{"Quote", "Devis", "Nabídka"},
	{"No. %s", "n° %s", "č. %s"},
	{"Invoice date", "Date de facturation", "Datum vystavení"},
	{"Due date", "Date d'échéance", "Datum splatnosti"},
	{"Taxable date", "Date d'exigibilité", "DUZP"},
	{"Paytype", "Mode de paiement", "Způsob platby"},
	{"Payment information", "Informations de paiement", "Platební údaje"},
	{"Subject: %s", "Objet : %s", "Předmět: %s"},

	// items table
	{"Items", "Éléments", "Položky"},
	{"units", "unités", "množství"},
	{"unit price", "prix unitaire", "cena za jednotku"},
	{"author rights", "droits d'auteur", "autorská práva"},
	{"sale price", "prix de vente", "prodejní cena"},
	{"total", "total", "celkem"},

	// totals
	{"Amount payable to the author", "Montant à verser à l'auteur", "Částka k úhradě autorovi"},
	{"VAT not applicable, article 293B of the French General Tax Code",
		"TVA non applicable, article 293B du Code Général des impôts", ""},
	{"VAT breakdown", "Détail de la TVA", "Rekapitulace DPH"},
	{"VAT rate", "Taux", "Sazba"},
	{"Total excl. VAT", "Total HT", "Základ"},
	{"VAT", "TVA", "DPH"},
	{"Total incl. VAT", "Total TTC", "Celkem s DPH"},
	{"Rounding", "Arrondi", "Zaokrouhlení"},
	{"Total to pay", "Total à payer", "Celkem k úhradě"},

	// contributions
	{"Contributions owed by the distributor to URSSAF",
		"Contributions dues par le diffuseur à l'URSSAF", ""},
	{"Social contributions: 1%% of the gross amount excl. VAT",
		"Cotisations sociales : 1%% du montant brut HT", ""},
	{"Vocational training contribution: 0.10%% of the gross amount excl. VAT",
		"Contribution à la formation professionnelle : 0,10%% du montant brut HT", ""},

	{"Page %d of %d", "Page %d sur %d", "Strana %d z %d"},

	// legal footer
	{legalTermsTitle, "En conformité de l'article L 441-6 du Code de commerce :", ""},
	{legalTermsBody,
		"Pas d'escompte pour paiement anticipé. Règlement à faire par chèque à l'ordre de %s " +
			"ou par virement en date de remise de cette facture. Le paiement sera à effectuer au plus tard " +
			"au trentième jour suivant la date de réception de la facture (cf : C. com. Art L. 441-6, al.2 " +
			"modifié de la loi du 15 mai 2001). Tout règlement effectué après expiration de ce délai donnera " +
			"lieu à une pénalité fixée à 15%% du montant total de la facture, par mois de retard entamé, " +
			"exigible sans rappel le jour suivant la date limite du règlement, ainsi qu'à une indemnité " +
			"forfaitaire pour frais de recouvrement d'un montant de 40 €. Mention obligatoire. Lutte contre " +
			"les retards de paiement / Art. 53, loi NRE.", ""},
	{urssafTitle, "Informations concernant l'URSSAF :", ""},
	{urssafBody,
		"Conformément à l'article L382-4 du Code de la Sécurité Sociale et L6331-65 du Code du Travail, " +
			"le client doit s'acquitter d'une contribution personnelle de 1,1%% de la rémunération brute " +
			"hors taxes directement auprès de l'URSSAF (anciennement AGESSA). " +
			"https://www.artistes-auteurs.urssaf.fr/", ""},
	{rightsTitle, "Informations concernant les droits d'exploitation :", ""},
	{rightsBody,
		"%[1]s ne cède que les droits d'exploitation de la création limités aux termes du présent document. " +
			"%[1]s reste propriétaire de l'intégralité des créations tant que la prestation n'est pas " +
			"entièrement réglée. Toute utilisation sortant du cadre initialement prévu dans ce devis est " +
			"interdite, sauf autorisation expresse et écrite de %[1]s.", ""},
}
