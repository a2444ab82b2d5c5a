package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// VerificationTemplateName - имя встроенного шаблона письма верификации
const VerificationTemplateName = "verification"

// Шаблон письма с кодом: код вводится на странице верификации
const verificationTemplate = `<h1>Confirm by using code below on verification page:</h1>
<p><b>{{.Code}}</b></p>`

// TemplateManager реализует TemplateRenderer для шаблонов email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с уже зарегистрированным
// шаблоном верификации
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	// Встроенный шаблон валиден, ошибка здесь невозможна
	_ = tm.AddTemplate(VerificationTemplateName, verificationTemplate)
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
