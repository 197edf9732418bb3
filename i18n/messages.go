package i18n

// catalog holds the message tables. Keys are shared by both languages;
// validation codes from the validation package are keys too.
var catalog = map[string]map[string]string{
	"fr": {
		"app.name":                   "Stock Admin",
		"theme.light":                "Clair",
		"theme.dark":                 "Sombre",
		"required":                   "Requis",
		"invalid":                    "Invalide",
		"invalid_email":              "Adresse e-mail invalide",
		"invalid_choice":             "Choix invalide",
		"invalid_date":               "Date invalide",
		"date_before_start":          "La date de fin précède la date de début",
		"must_be_positive":           "Doit être supérieur à zéro",
		"must_not_be_negative":       "Ne peut pas être négatif",
		"must_not_be_zero":           "Ne peut pas être nul",
		"out_of_range":               "Hors limites",
		"too_short":                  "Trop court (8 caractères minimum)",
		"form.has_errors":            "Le formulaire contient des erreurs",
		"action.add":                 "Ajouter",
		"action.back":                "Retour",
		"action.cancel":              "Annuler",
		"action.confirm_delete":      "Supprimer définitivement ?",
		"action.create":              "Créer",
		"action.delete":              "Supprimer",
		"action.edit":                "Modifier",
		"action.new":                 "Nouveau",
		"action.print":               "Imprimer",
		"action.remove":              "Retirer",
		"action.save":                "Enregistrer",
		"action.update":              "Mettre à jour",
		"action.view":                "Voir",
		"common.yes":                 "Oui",
		"common.no":                  "Non",
		"auth.login":                 "Connexion",
		"auth.sign_in":               "Se connecter",
		"auth.invalid_credentials":   "E-mail ou mot de passe incorrect",
		"auth.too_many_attempts":     "Trop de tentatives, réessayez dans une minute",
		"error.backend":              "Le serveur de données ne répond pas correctement",
		"error.bad_request":          "Requête invalide",
		"error.forbidden":            "Accès refusé",
		"error.internal":             "Erreur interne",
		"error.not_found":            "Page introuvable",
		"error.unauthorized":         "Veuillez vous connecter",
		"flash.created":              "Créé avec succès",
		"flash.updated":              "Modifié avec succès",
		"flash.deleted":              "Supprimé",
		"flash.delete_failed":        "Suppression impossible",
		"flash.update_failed":        "Modification impossible",
		"flash.assigned":             "Camion et chauffeur affectés",
		"flash.cache_cleared":        "Cache des rôles vidé",
		"flash.notification_sent":    "Notification envoyée",
		"flash.role_assigned":        "Rôle attribué",
		"flash.stock_adjusted":       "Mouvement de stock enregistré",
		"nav.dashboard":              "Tableau de bord",
		"nav.pos":                    "Caisse",
		"nav.products":               "Produits",
		"nav.categories":             "Catégories",
		"nav.stock":                  "Stock",
		"nav.orders":                 "Commandes",
		"nav.trucks":                 "Camions",
		"nav.drivers":                "Chauffeurs",
		"nav.reports":                "Rapports",
		"nav.notifications":          "Notifications",
		"nav.companies":              "Sociétés",
		"nav.users":                  "Utilisateurs",
		"nav.roles":                  "Rôles",
		"nav.logout":                 "Déconnexion",
		"nav.back_home":              "Retour au tableau de bord",
		"list.empty":                 "Aucun élément",
		"list.filter":                "Filtrer",
		"list.from":                  "Du",
		"list.to":                    "Au",
		"list.next":                  "Suivant",
		"list.prev":                  "Précédent",
		"list.page_of":               "Page %d / %d",
		"list.reset":                 "Réinitialiser",
		"list.search":                "Rechercher…",
		"list.total":                 "%d élément(s)",
		"field.active":               "Actif",
		"field.address":              "Adresse",
		"field.barcode":              "Code-barres",
		"field.brand":                "Marque",
		"field.capacity_kg":          "Capacité (kg)",
		"field.category":             "Catégorie",
		"field.city":                 "Ville",
		"field.company":              "Société",
		"field.country":              "Pays",
		"field.created_at":           "Créé le",
		"field.customer":             "Client",
		"field.date":                 "Date",
		"field.description":          "Description",
		"field.driver":               "Chauffeur",
		"field.email":                "E-mail",
		"field.last_service":         "Dernier entretien",
		"field.license_expiry":       "Expiration du permis",
		"field.license_number":       "N° de permis",
		"field.location":             "Emplacement",
		"field.model":                "Modèle",
		"field.name":                 "Nom",
		"field.password":             "Mot de passe",
		"field.payment_method":       "Mode de paiement",
		"field.phone":                "Téléphone",
		"field.plate":                "Immatriculation",
		"field.postal_code":          "Code postal",
		"field.price":                "Prix HT",
		"field.price_with_tax":       "Prix TTC",
		"field.product":              "Produit",
		"field.quantity":             "Quantité",
		"field.rc":                   "N° RC",
		"field.reason":               "Motif",
		"field.reference":            "Référence",
		"field.role":                 "Rôle",
		"field.source":               "Origine",
		"field.status":               "Statut",
		"field.stock":                "Stock",
		"field.street":               "Rue",
		"field.sub_category":         "Sous-catégorie",
		"field.tax_number":           "NIF",
		"field.tax_rate":             "TVA",
		"field.tax_rate_percent":     "TVA (%)",
		"field.threshold":            "Seuil d'alerte",
		"field.total":                "Total",
		"field.truck":                "Camion",
		"field.unit":                 "Unité",
		"field.unit_price":           "Prix unitaire",
		"field.updated_at":           "Mis à jour",
		"field.wilaya":               "Wilaya",
		"dashboard.products":         "Produits",
		"dashboard.pending_orders":   "Commandes en attente",
		"dashboard.low_stock":        "Stocks bas",
		"dashboard.available_trucks": "Camions disponibles",
		"dashboard.recent_orders":    "Dernières commandes",
		"dashboard.partial":          "Certaines données n'ont pas pu être chargées :",
		"product.new":                "Nouveau produit",
		"product.edit":               "Modifier le produit",
		"product.all_categories":     "Toutes les catégories",
		"category.new":               "Nouvelle catégorie",
		"category.products":          "Voir les produits",
		"category.sub_categories":    "Sous-catégories",
		"category.sub_name":          "Nouvelle sous-catégorie",
		"user.new":                   "Nouvel utilisateur",
		"user.edit":                  "Modifier l'utilisateur",
		"user.password_hint":         "Laisser vide pour conserver le mot de passe actuel",
		"company.new":                "Nouvelle société",
		"company.identity":           "Identité",
		"truck.new":                  "Nouveau camion",
		"driver.new":                 "Nouveau chauffeur",
		"driver.license_expired":     "Permis expiré",
		"order.title":                "Commande",
		"order.assign":               "Affecter",
		"order.change_status":        "Changer le statut",
		"order.export_csv":           "Exporter en CSV",
		"stock.adjust":               "Ajuster",
		"stock.direction":            "Sens",
		"stock.in":                   "Entrée",
		"stock.out":                  "Sortie",
		"stock.movement":             "Mouvement de stock",
		"stock.threshold_hint":       "Seuil (0 = seuil par défaut)",
		"stock.tab.all":              "Tous",
		"stock.tab.low":              "Stock bas",
		"pos.cart":                   "Panier",
		"pos.change_due":             "Monnaie à rendre : %s",
		"pos.checkout":               "Encaisser",
		"pos.clear":                  "Vider le panier",
		"pos.empty_cart":             "Le panier est vide",
		"pos.insufficient_payment":   "Montant reçu insuffisant",
		"pos.insufficient_stock":     "Stock insuffisant",
		"pos.invalid_payment":        "Mode de paiement inconnu",
		"pos.invalid_quantity":       "Quantité invalide",
		"pos.unknown_product":        "Produit absent du panier",
		"pos.new_sale":               "Nouvelle vente",
		"pos.receipt":                "Ticket",
		"pos.search":                 "Produit ou code-barres…",
		"pos.subtotal":               "Sous-total HT",
		"pos.tax":                    "TVA",
		"pos.total":                  "Total TTC",
		"pos.tendered":               "Montant reçu",
		"report.type":                "Type de rapport",
		"report.generate":            "Générer",
		"report.download_pdf":        "Télécharger le PDF",
		"report.type.sales":          "Ventes",
		"report.type.stock":          "Stock",
		"report.type.orders":         "Commandes",
		"report.type.deliveries":     "Livraisons",
		"notification.topics":        "Sujets",
		"notification.topic":         "Sujet",
		"notification.new_topic":     "Nouveau sujet",
		"notification.subscribers":   "Abonnés",
		"notification.send":          "Envoyer une notification",
		"notification.title":         "Titre",
		"notification.body":          "Message",
		"notification.recent":        "Notifications récentes",
		"roles.permissions":          "Permissions",
		"roles.assign":               "Attribuer un rôle",
		"roles.clear_cache":          "Vider le cache",
		"role.all":                   "Tous",
		"role.admin":                 "Administrateur",
		"role.manager":               "Gérant",
		"role.cashier":               "Caissier",
		"role.driver":                "Chauffeur",
		"status.all":                 "Toutes",
		"status.pending":             "En attente",
		"status.confirmed":           "Confirmée",
		"status.in_delivery":         "En livraison",
		"status.delivered":           "Livrée",
		"status.cancelled":           "Annulée",
		"truck.status.all":           "Tous",
		"truck.status.available":     "Disponible",
		"truck.status.in_use":        "En service",
		"truck.status.maintenance":   "En maintenance",
		"driver.status.all":          "Tous",
		"driver.status.available":    "Disponible",
		"driver.status.on_duty":      "En service",
		"driver.status.off_duty":     "Repos",
		"payment.cash":               "Espèces",
		"payment.card":               "Carte",
		"payment.transfer":           "Virement",
	},
	"en": {
		"app.name":                   "Stock Admin",
		"theme.light":                "Light",
		"theme.dark":                 "Dark",
		"required":                   "Required",
		"invalid":                    "Invalid",
		"invalid_email":              "Invalid email address",
		"invalid_choice":             "Invalid choice",
		"invalid_date":               "Invalid date",
		"date_before_start":          "End date is before the start date",
		"must_be_positive":           "Must be greater than zero",
		"must_not_be_negative":       "Cannot be negative",
		"must_not_be_zero":           "Cannot be zero",
		"out_of_range":               "Out of range",
		"too_short":                  "Too short (at least 8 characters)",
		"form.has_errors":            "The form has errors",
		"action.add":                 "Add",
		"action.back":                "Back",
		"action.cancel":              "Cancel",
		"action.confirm_delete":      "Delete permanently?",
		"action.create":              "Create",
		"action.delete":              "Delete",
		"action.edit":                "Edit",
		"action.new":                 "New",
		"action.print":               "Print",
		"action.remove":              "Remove",
		"action.save":                "Save",
		"action.update":              "Update",
		"action.view":                "View",
		"common.yes":                 "Yes",
		"common.no":                  "No",
		"auth.login":                 "Sign in",
		"auth.sign_in":               "Sign in",
		"auth.invalid_credentials":   "Invalid email or password",
		"auth.too_many_attempts":     "Too many attempts, try again in a minute",
		"error.backend":              "The data server did not answer correctly",
		"error.bad_request":          "Bad request",
		"error.forbidden":            "Access denied",
		"error.internal":             "Internal error",
		"error.not_found":            "Page not found",
		"error.unauthorized":         "Please sign in",
		"flash.created":              "Created successfully",
		"flash.updated":              "Updated successfully",
		"flash.deleted":              "Deleted",
		"flash.delete_failed":        "Could not delete",
		"flash.update_failed":        "Could not update",
		"flash.assigned":             "Truck and driver assigned",
		"flash.cache_cleared":        "Role cache cleared",
		"flash.notification_sent":    "Notification sent",
		"flash.role_assigned":        "Role assigned",
		"flash.stock_adjusted":       "Stock movement recorded",
		"nav.dashboard":              "Dashboard",
		"nav.pos":                    "Point of sale",
		"nav.products":               "Products",
		"nav.categories":             "Categories",
		"nav.stock":                  "Stock",
		"nav.orders":                 "Orders",
		"nav.trucks":                 "Trucks",
		"nav.drivers":                "Drivers",
		"nav.reports":                "Reports",
		"nav.notifications":          "Notifications",
		"nav.companies":              "Companies",
		"nav.users":                  "Users",
		"nav.roles":                  "Roles",
		"nav.logout":                 "Sign out",
		"nav.back_home":              "Back to the dashboard",
		"list.empty":                 "Nothing to show",
		"list.filter":                "Filter",
		"list.from":                  "From",
		"list.to":                    "To",
		"list.next":                  "Next",
		"list.prev":                  "Previous",
		"list.page_of":               "Page %d of %d",
		"list.reset":                 "Reset",
		"list.search":                "Search…",
		"list.total":                 "%d item(s)",
		"field.active":               "Active",
		"field.address":              "Address",
		"field.barcode":              "Barcode",
		"field.brand":                "Brand",
		"field.capacity_kg":          "Capacity (kg)",
		"field.category":             "Category",
		"field.city":                 "City",
		"field.company":              "Company",
		"field.country":              "Country",
		"field.created_at":           "Created",
		"field.customer":             "Customer",
		"field.date":                 "Date",
		"field.description":          "Description",
		"field.driver":               "Driver",
		"field.email":                "Email",
		"field.last_service":         "Last service",
		"field.license_expiry":       "License expiry",
		"field.license_number":       "License number",
		"field.location":             "Location",
		"field.model":                "Model",
		"field.name":                 "Name",
		"field.password":             "Password",
		"field.payment_method":       "Payment method",
		"field.phone":                "Phone",
		"field.plate":                "Plate",
		"field.postal_code":          "Postal code",
		"field.price":                "Price (excl. tax)",
		"field.price_with_tax":       "Price (incl. tax)",
		"field.product":              "Product",
		"field.quantity":             "Quantity",
		"field.rc":                   "Trade register no.",
		"field.reason":               "Reason",
		"field.reference":            "Reference",
		"field.role":                 "Role",
		"field.source":               "Source",
		"field.status":               "Status",
		"field.stock":                "Stock",
		"field.street":               "Street",
		"field.sub_category":         "Sub-category",
		"field.tax_number":           "Tax number",
		"field.tax_rate":             "VAT",
		"field.tax_rate_percent":     "VAT (%)",
		"field.threshold":            "Alert threshold",
		"field.total":                "Total",
		"field.truck":                "Truck",
		"field.unit":                 "Unit",
		"field.unit_price":           "Unit price",
		"field.updated_at":           "Updated",
		"field.wilaya":               "Province",
		"dashboard.products":         "Products",
		"dashboard.pending_orders":   "Pending orders",
		"dashboard.low_stock":        "Low stock",
		"dashboard.available_trucks": "Available trucks",
		"dashboard.recent_orders":    "Recent orders",
		"dashboard.partial":          "Some data could not be loaded:",
		"product.new":                "New product",
		"product.edit":               "Edit product",
		"product.all_categories":     "All categories",
		"category.new":               "New category",
		"category.products":          "Show products",
		"category.sub_categories":    "Sub-categories",
		"category.sub_name":          "New sub-category",
		"user.new":                   "New user",
		"user.edit":                  "Edit user",
		"user.password_hint":         "Leave blank to keep the current password",
		"company.new":                "New company",
		"company.identity":           "Identity",
		"truck.new":                  "New truck",
		"driver.new":                 "New driver",
		"driver.license_expired":     "License expired",
		"order.title":                "Order",
		"order.assign":               "Assign",
		"order.change_status":        "Change status",
		"order.export_csv":           "Export CSV",
		"stock.adjust":               "Adjust",
		"stock.direction":            "Direction",
		"stock.in":                   "In",
		"stock.out":                  "Out",
		"stock.movement":             "Stock movement",
		"stock.threshold_hint":       "Threshold (0 = default)",
		"stock.tab.all":              "All",
		"stock.tab.low":              "Low stock",
		"pos.cart":                   "Cart",
		"pos.change_due":             "Change due: %s",
		"pos.checkout":               "Check out",
		"pos.clear":                  "Clear cart",
		"pos.empty_cart":             "The cart is empty",
		"pos.insufficient_payment":   "Amount tendered is below the total",
		"pos.insufficient_stock":     "Not enough stock",
		"pos.invalid_payment":        "Unknown payment method",
		"pos.invalid_quantity":       "Invalid quantity",
		"pos.unknown_product":        "Product not in cart",
		"pos.new_sale":               "New sale",
		"pos.receipt":                "Receipt",
		"pos.search":                 "Product or barcode…",
		"pos.subtotal":               "Subtotal",
		"pos.tax":                    "VAT",
		"pos.total":                  "Total",
		"pos.tendered":               "Amount tendered",
		"report.type":                "Report type",
		"report.generate":            "Generate",
		"report.download_pdf":        "Download PDF",
		"report.type.sales":          "Sales",
		"report.type.stock":          "Stock",
		"report.type.orders":         "Orders",
		"report.type.deliveries":     "Deliveries",
		"notification.topics":        "Topics",
		"notification.topic":         "Topic",
		"notification.new_topic":     "New topic",
		"notification.subscribers":   "Subscribers",
		"notification.send":          "Send a notification",
		"notification.title":         "Title",
		"notification.body":          "Message",
		"notification.recent":        "Recent notifications",
		"roles.permissions":          "Permissions",
		"roles.assign":               "Assign a role",
		"roles.clear_cache":          "Clear cache",
		"role.all":                   "All",
		"role.admin":                 "Administrator",
		"role.manager":               "Manager",
		"role.cashier":               "Cashier",
		"role.driver":                "Driver",
		"status.all":                 "All",
		"status.pending":             "Pending",
		"status.confirmed":           "Confirmed",
		"status.in_delivery":         "In delivery",
		"status.delivered":           "Delivered",
		"status.cancelled":           "Cancelled",
		"truck.status.all":           "All",
		"truck.status.available":     "Available",
		"truck.status.in_use":        "In use",
		"truck.status.maintenance":   "Maintenance",
		"driver.status.all":          "All",
		"driver.status.available":    "Available",
		"driver.status.on_duty":      "On duty",
		"driver.status.off_duty":     "Off duty",
		"payment.cash":               "Cash",
		"payment.card":               "Card",
		"payment.transfer":           "Transfer",
	},
}
