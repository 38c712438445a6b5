package i18n

const (
	legalTermsTitle = "Pursuant to article L 441-6 of the French Commercial Code:"
	legalTermsBody  = "No discount for early payment. Payment by cheque to the order of %s " +
		"or by bank transfer on the date this invoice is delivered. Payment is due no later than " +
		"the thirtieth day following receipt of the invoice (cf. C. com. Art L. 441-6, para. 2, as " +
		"amended by the law of 15 May 2001). Any payment made after this period gives rise to a " +
		"penalty of 15%% of the invoice total per month of delay begun, payable without reminder " +
		"on the day after the due date, plus a fixed recovery fee of 40 €. Mandatory notice. " +
		"Late payment prevention / Art. 53, NRE law."
	urssafTitle = "URSSAF information:"
	urssafBody  = "Under article L382-4 of the Social Security Code and L6331-65 of the Labour Code, " +
		"the client owes a personal contribution of 1.1%% of the gross remuneration excluding taxes, " +
		"paid directly to URSSAF (formerly AGESSA). https://www.artistes-auteurs.urssaf.fr/"
	rightsTitle = "Exploitation rights:"
	rightsBody  = "%[1]s only assigns the exploitation rights of the creation within the terms of " +
		"this document. %[1]s remains owner of all creations until the service is paid in full. " +
		"Any use beyond the scope initially agreed in this quote is forbidden without the express " +
		"written consent of %[1]s."
)

// Notice is one titled paragraph of the legal footer.
type Notice struct {
	Title string
	Body  string
}

// LegalNotices returns the footer paragraphs in lang, naming provider as the
// author and payee.
func LegalNotices(lang, provider string) []Notice {
	t := New(lang)
	return []Notice{
		{Title: t.Sprintf(legalTermsTitle), Body: t.Sprintf(legalTermsBody, provider)},
		{Title: t.Sprintf(urssafTitle), Body: t.Sprintf(urssafBody)},
		{Title: t.Sprintf(rightsTitle), Body: t.Sprintf(rightsBody, provider)},
	}
}
