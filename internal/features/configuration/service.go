package configuration

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go-expense-sync/internal/codat"
	"go-expense-sync/internal/features/webhook"
	"go-expense-sync/internal/repository"

	"go.uber.org/zap"
)

// ErrNotReady means at least one required reference data pull has not yet
// completed. The controller turns it into the 404 retry-later sentinel.
var ErrNotReady = errors.New("required data types not yet pulled")

// requiredDataTypes are the pulls that must complete before mapping options
// can be assembled.
var requiredDataTypes = []string{
	webhook.DataTypeBankAccounts,
	webhook.DataTypeCustomers,
	webhook.DataTypeSuppliers,
}

type ConfigurationService interface {
	// GetConfigOptions returns ErrNotReady until every required reference
	// data type has been pulled, then assembles the mapping options from the
	// live accounting data.
	GetConfigOptions(ctx context.Context, companyID string) (*CompanyConfigData, error)
	SaveConfig(ctx context.Context, companyID string, req SaveConfigRequest) (*codat.CompanyConfiguration, error)
}

type ConfigurationServiceImpl struct {
	Repo   repository.Repository
	Codat  *codat.Client
	Logger *zap.Logger
}

func NewConfigurationService(repo repository.Repository, client *codat.Client, logger *zap.Logger) ConfigurationService {
	return &ConfigurationServiceImpl{
		Repo:   repo,
		Codat:  client,
		Logger: logger,
	}
}

func (s *ConfigurationServiceImpl) GetConfigOptions(ctx context.Context, companyID string) (*CompanyConfigData, error) {
	for _, dataType := range requiredDataTypes {
		_, err := s.Repo.CompletedPullOperations().Get(ctx, companyID, dataType)
		if errors.Is(err, repository.ErrNotFound) {
			s.Logger.Info("data type not yet pulled",
				zap.String("companyId", companyID),
				zap.String("dataType", dataType))
			return nil, ErrNotReady
		}
		if err != nil {
			return nil, err
		}
	}

	connections, err := s.Codat.ListConnections(ctx, companyID)
	if err != nil {
		return nil, err
	}
	var accountingConnection *codat.Connection
	for i := range connections {
		if connections[i].SourceType == codat.SourceTypeAccounting {
			accountingConnection = &connections[i]
			break
		}
	}
	if accountingConnection == nil {
		return nil, fmt.Errorf("unable to find accounting connection for company %s", companyID)
	}

	company, err := s.Codat.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	bankAccounts, err := s.Codat.ListBankAccounts(ctx, companyID, accountingConnection.ID)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.Codat.ListSuppliers(ctx, companyID)
	if err != nil {
		return nil, err
	}
	customers, err := s.Codat.ListCustomers(ctx, companyID)
	if err != nil {
		return nil, err
	}

	data := &CompanyConfigData{
		CompanyName:  company.Name,
		Suppliers:    []SelectOption{},
		Customers:    []SelectOption{},
		BankAccounts: []SelectOption{},
	}

	for _, account := range bankAccounts {
		data.BankAccounts = append(data.BankAccounts, SelectOption{
			Label: fmt.Sprintf("(%s)%s %s", account.Currency, account.AccountName,
				strconv.FormatFloat(account.Balance, 'f', -1, 64)),
			Value: account.ID,
		})
	}
	for _, supplier := range suppliers {
		if supplier.Status != codat.SupplierStatusActive {
			continue
		}
		label := supplier.SupplierName
		if label == "" {
			label = supplier.ContactName
		}
		data.Suppliers = append(data.Suppliers, SelectOption{Label: label, Value: supplier.ID})
	}
	for _, customer := range customers {
		if customer.Status != codat.CustomerStatusActive {
			continue
		}
		label := customer.CustomerName
		if label == "" {
			label = customer.ContactName
		}
		data.Customers = append(data.Customers, SelectOption{Label: label, Value: customer.ID})
	}

	return data, nil
}

func (s *ConfigurationServiceImpl) SaveConfig(ctx context.Context, companyID string, req SaveConfigRequest) (*codat.CompanyConfiguration, error) {
	saved, err := s.Codat.SaveCompanyConfiguration(ctx, companyID, codat.CompanyConfiguration{
		BankAccount: codat.RecordRef{ID: req.BankAccountID},
		Customer:    codat.RecordRef{ID: req.CustomerID},
		Supplier:    codat.RecordRef{ID: req.SupplierID},
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("saved company configuration", zap.String("companyId", companyID))
	return saved, nil
}
