package paypal

type money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

type purchaseUnitRequest struct {
	ReferenceID string `json:"reference_id,omitempty"`
	CustomID    string `json:"custom_id"`
	Description string `json:"description,omitempty"`
	Amount      money  `json:"amount"`
}

type applicationContext struct {
	BrandName  string `json:"brand_name,omitempty"`
	ReturnURL  string `json:"return_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
	UserAction string `json:"user_action,omitempty"`
	Shipping   string `json:"shipping_preference,omitempty"`
}

type createOrderRequest struct {
	Intent             string                `json:"intent"`
	PurchaseUnits      []purchaseUnitRequest `json:"purchase_units"`
	ApplicationContext applicationContext    `json:"application_context"`
}

type capture struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	CustomID string `json:"custom_id"`
	Amount   money  `json:"amount"`
}

type purchaseUnit struct {
	ReferenceID string `json:"reference_id"`
	CustomID    string `json:"custom_id"`
	Amount      money  `json:"amount"`
	Payments    struct {
		Captures []capture `json:"captures"`
	} `json:"payments"`
}

type orderResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Links         []link         `json:"links"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Details []struct {
		Issue       string `json:"issue"`
		Description string `json:"description"`
	} `json:"details"`
}

func (e *errorResponse) hasIssue(issue string) bool {
	for _, d := range e.Details {
		if d.Issue == issue {
			return true
		}
	}
	return false
}

// detail custom_id 优先取 purchase_units[0]，缺失时回退到首个 capture
func (o *orderResponse) detail() *OrderDetail {
	d := &OrderDetail{OrderID: o.ID, Status: o.Status}
	if len(o.PurchaseUnits) == 0 {
		return d
	}
	pu := o.PurchaseUnits[0]
	d.SubjectID = pu.CustomID
	d.Amount = pu.Amount.Value
	d.Currency = pu.Amount.CurrencyCode
	if len(pu.Payments.Captures) > 0 {
		c := pu.Payments.Captures[0]
		d.ProviderPaymentID = c.ID
		if d.SubjectID == "" {
			d.SubjectID = c.CustomID
		}
		if c.Amount.Value != "" {
			d.Amount = c.Amount.Value
			d.Currency = c.Amount.CurrencyCode
		}
	}
	return d
}

func (o *orderResponse) approveURL() string {
	for _, l := range o.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href
		}
	}
	return ""
}
