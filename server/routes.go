package server

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.healthCheckHandler)

	crm := s.app.Group("/crm")
	crm.Get("/status", s.statusHandler)
	crm.Post("/refresh", s.refreshHandler)
	crm.Put("/scope", s.scopeHandler)

	crm.Get("/threads", s.threadsHandler)
	crm.Get("/threads/:leadId", s.threadHandler)
	crm.Post("/threads/:leadId/messages", s.sendMessageHandler)
	crm.Post("/threads/:leadId/messages/:tempId/retry", s.retryMessageHandler)
	crm.Delete("/threads/:leadId/messages/:tempId", s.discardMessageHandler)
	crm.Post("/threads/:leadId/attachments", s.sendAttachmentHandler)
	crm.Patch("/threads/:leadId/takeover", s.takeoverHandler)
	crm.Post("/threads/:leadId/suggest", s.suggestHandler)
}
