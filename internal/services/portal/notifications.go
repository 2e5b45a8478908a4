package portal

import (
	"context"
)

// NotificationSummary is one notification addressed to a customer
type NotificationSummary struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Creation string `json:"creation"`
}

// NotificationList is returned by ListNotifications
type NotificationList struct {
	CustomerCode  string                `json:"customer_code"`
	Notifications []NotificationSummary `json:"notifications"`
}

// ListNotifications returns the notifications of the customer carrying code, newest first
func (s *Service) ListNotifications(ctx context.Context, code string) (*NotificationList, error) {
	resolved, err := s.resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListNotifications(ctx, resolved.Customer.Name, s.opts.NotificationsSubmittedOnly)
	if err != nil {
		return nil, unexpected(err)
	}

	out := &NotificationList{
		CustomerCode:  resolved.Customer.CustomerCode,
		Notifications: make([]NotificationSummary, 0, len(rows)),
	}
	for _, n := range rows {
		if n.Customer != "" && n.Customer != resolved.Customer.Name {
			continue
		}
		out.Notifications = append(out.Notifications, NotificationSummary{
			Name:     n.Name,
			Title:    n.Title.String(),
			Message:  n.Message.String(),
			Creation: n.Creation.String(),
		})
	}
	return out, nil
}
